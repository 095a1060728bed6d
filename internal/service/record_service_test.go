package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/repository"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type mockReadRepo struct {
	rows        []models.ConductRecordRow
	plain       []models.ConductRecord
	lastFilter  repository.SeriousFilter
	listErr     error
	plainCalled bool
}

func (m *mockReadRepo) ListForStudent(ctx context.Context, studentID string) ([]models.ConductRecordRow, error) {
	return m.rows, m.listErr
}

func (m *mockReadRepo) ListForFaculty(ctx context.Context, facultyID string) ([]models.ConductRecordRow, error) {
	return m.rows, m.listErr
}

func (m *mockReadRepo) ListSerious(ctx context.Context, filter repository.SeriousFilter) ([]models.ConductRecordRow, error) {
	m.lastFilter = filter
	return m.rows, m.listErr
}

func (m *mockReadRepo) ListPlain(ctx context.Context, studentID string) ([]models.ConductRecord, error) {
	m.plainCalled = true
	return m.plain, m.listErr
}

type mockServiceLogReadRepo struct {
	rows  []models.ServiceLogRow
	plain []models.ServiceLog
}

func (m *mockServiceLogReadRepo) ListForStudent(ctx context.Context, studentID string) ([]models.ServiceLogRow, error) {
	return m.rows, nil
}

func (m *mockServiceLogReadRepo) ListForFaculty(ctx context.Context, facultyID string) ([]models.ServiceLogRow, error) {
	return m.rows, nil
}

func (m *mockServiceLogReadRepo) ListPlain(ctx context.Context, studentID string) ([]models.ServiceLog, error) {
	return m.plain, nil
}

type mockStudentExists struct {
	exists bool
}

func (m *mockStudentExists) Exists(ctx context.Context, id string) (bool, error) {
	return m.exists, nil
}

type mockBalanceCache struct {
	values map[string][]byte
	sets   int
}

func (m *mockBalanceCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockBalanceCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = raw
	m.sets++
	return nil
}

func newRecordService(records *mockReadRepo, logs *mockServiceLogReadRepo, cache *mockBalanceCache) *RecordService {
	var bc balanceCache
	if cache != nil {
		bc = cache
	}
	return NewRecordService(records, logs, &mockStudentExists{exists: true}, bc, nil, nil, nil, time.Minute)
}

func TestStudentRecordsTransformsRows(t *testing.T) {
	records := &mockReadRepo{rows: []models.ConductRecordRow{
		{ConductRecord: models.ConductRecord{ID: "rec-1", Category: models.CategoryDemerit}},
		{},
	}}
	svc := newRecordService(records, &mockServiceLogReadRepo{}, nil)

	out, err := svc.StudentRecords(context.Background(), "stu-1")
	require.NoError(t, err)
	// The malformed row is dropped, not surfaced as an error.
	require.Len(t, out, 1)
	assert.Equal(t, "rec-1", out[0].ID)
	assert.Equal(t, models.StatusPending, out[0].Status)
}

func TestStudentRecordsUnknownStudent(t *testing.T) {
	svc := NewRecordService(&mockReadRepo{}, &mockServiceLogReadRepo{}, &mockStudentExists{exists: false}, nil, nil, nil, nil, time.Minute)

	_, err := svc.StudentRecords(context.Background(), "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

func TestInfractionsStatusFilter(t *testing.T) {
	records := &mockReadRepo{}
	svc := newRecordService(records, &mockServiceLogReadRepo{}, nil)

	_, err := svc.Infractions(context.Background(), "Pending", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, records.lastFilter.Status)

	_, err = svc.Infractions(context.Background(), "", "fac-1")
	require.NoError(t, err)
	assert.Empty(t, records.lastFilter.Status)
	assert.Equal(t, "fac-1", records.lastFilter.FacultyID)
}

func TestInfractionsRejectsUnknownStatus(t *testing.T) {
	svc := newRecordService(&mockReadRepo{}, &mockServiceLogReadRepo{}, nil)

	_, err := svc.Infractions(context.Background(), "Appealed", "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestBalanceComputesAndCaches(t *testing.T) {
	records := &mockReadRepo{plain: []models.ConductRecord{
		{Category: models.CategoryDemerit, SanctionDays: 6, SanctionContext: models.ContextOffice},
		{Category: models.CategoryMerit, SanctionDays: 1, SanctionContext: models.ContextOffice},
	}}
	logs := &mockServiceLogReadRepo{plain: []models.ServiceLog{{DaysDeducted: 2}}}
	cache := &mockBalanceCache{}
	svc := newRecordService(records, logs, cache)

	summary, err := svc.Balance(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.RemainingBalance)
	assert.Equal(t, 5, summary.NetOffice)
	assert.Equal(t, 1, cache.sets)
	assert.True(t, records.plainCalled)
}

func TestBalanceServesFromCache(t *testing.T) {
	cached := dto.BalanceSummary{StudentID: "stu-1", RemainingBalance: 7}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)

	records := &mockReadRepo{}
	cache := &mockBalanceCache{values: map[string][]byte{
		repository.BalanceKey("stu-1"): raw,
	}}
	svc := newRecordService(records, &mockServiceLogReadRepo{}, cache)

	summary, err := svc.Balance(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 7, summary.RemainingBalance)
	assert.False(t, records.plainCalled)
	assert.Zero(t, cache.sets)
}

func TestBalanceWithoutCache(t *testing.T) {
	records := &mockReadRepo{}
	svc := newRecordService(records, &mockServiceLogReadRepo{}, nil)

	summary, err := svc.Balance(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Zero(t, summary.RemainingBalance)
	assert.True(t, records.plainCalled)
}
