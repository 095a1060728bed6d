package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/repository"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type mockConductRepo struct {
	created    *models.ConductRecord
	createErr  error
	row        *models.ConductRecordRow
	rowErr     error
	resolved   *models.InfractionResolution
	resolveErr error
}

func (m *mockConductRepo) Create(ctx context.Context, record *models.ConductRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = record
	return nil
}

func (m *mockConductRepo) GetRow(ctx context.Context, id string) (*models.ConductRecordRow, error) {
	if m.rowErr != nil {
		return nil, m.rowErr
	}
	return m.row, nil
}

func (m *mockConductRepo) Resolve(ctx context.Context, resolution *models.InfractionResolution) error {
	if m.resolveErr != nil {
		return m.resolveErr
	}
	m.resolved = resolution
	return nil
}

type mockServiceLogRepo struct {
	created   *models.ServiceLog
	createErr error
}

func (m *mockServiceLogRepo) Create(ctx context.Context, log *models.ServiceLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = log
	return nil
}

type mockStudentRepo struct {
	student *models.StudentProfile
	err     error
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.student, nil
}

type mockStaffRepo struct {
	staff *models.StaffProfile
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	if m.staff == nil {
		return nil, sql.ErrNoRows
	}
	return m.staff, nil
}

type mockAudit struct {
	logs []*models.AuditLog
}

func (m *mockAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

type mockCache struct {
	deleted []string
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func newConductService(records *mockConductRepo, logs *mockServiceLogRepo, students *mockStudentRepo) (*ConductService, *mockAudit, *mockCache) {
	audit := &mockAudit{}
	cache := &mockCache{}
	svc := NewConductService(records, logs, students, &mockStaffRepo{}, audit, cache, nil, nil, nil, nil)
	return svc, audit, cache
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestFileConductRecordSeriousNormalisation(t *testing.T) {
	studentID := uuid.NewString()
	records := &mockConductRepo{}
	svc, audit, cache := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{
		student: &models.StudentProfile{ID: studentID, FirstName: "Maria", LastName: "Cruz"},
	})

	record, err := svc.FileConductRecord(context.Background(), "fac-1", dto.FileConductRecordRequest{
		StudentID:       studentID,
		Category:        "merit",
		IsSerious:       true,
		Description:     "cheating during examination",
		SanctionDays:    10,
		SanctionContext: "office",
	})
	require.NoError(t, err)

	// Serious filings are stored as demerits with the sanction deferred.
	assert.Equal(t, models.CategoryDemerit, record.Category)
	assert.True(t, record.IsSerious)
	assert.Zero(t, record.SanctionDays)
	assert.Nil(t, record.SanctionOther)
	assert.Equal(t, "fac-1", record.FacultyID)
	require.NotNil(t, records.created)

	assert.Equal(t, []string{repository.BalanceKey(studentID)}, cache.deleted)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionRecordFiled, audit.logs[0].Action)
}

func TestFileConductRecordSeriousCategoryValue(t *testing.T) {
	studentID := uuid.NewString()
	records := &mockConductRepo{}
	svc, _, _ := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{
		student: &models.StudentProfile{ID: studentID, FirstName: "Maria", LastName: "Cruz"},
	})

	record, err := svc.FileConductRecord(context.Background(), "fac-1", dto.FileConductRecordRequest{
		StudentID:       studentID,
		Category:        dto.CategorySerious,
		Description:     "falsified clinical logs",
		SanctionDays:    7,
		SanctionContext: "rle",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryDemerit, record.Category)
	assert.True(t, record.IsSerious)
	assert.Zero(t, record.SanctionDays)
	require.NotNil(t, records.created)
}

func TestFileConductRecordValidationNamesField(t *testing.T) {
	svc, _, _ := newConductService(&mockConductRepo{}, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.FileConductRecord(context.Background(), "fac-1", dto.FileConductRecordRequest{
		Category:        "demerit",
		Description:     "late for duty",
		SanctionContext: "office",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "student_id")
}

func TestFileConductRecordRequiresCategory(t *testing.T) {
	svc, _, _ := newConductService(&mockConductRepo{}, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.FileConductRecord(context.Background(), "fac-1", dto.FileConductRecordRequest{
		StudentID:       uuid.NewString(),
		Description:     "late for duty",
		SanctionContext: "office",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestFileConductRecordStudentNotFound(t *testing.T) {
	svc, _, _ := newConductService(&mockConductRepo{}, &mockServiceLogRepo{}, &mockStudentRepo{err: sql.ErrNoRows})

	_, err := svc.FileConductRecord(context.Background(), "fac-1", dto.FileConductRecordRequest{
		StudentID:       uuid.NewString(),
		Category:        "demerit",
		Description:     "late for duty",
		SanctionDays:    1,
		SanctionContext: "office",
	})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

func TestFileServiceLogValidatesDays(t *testing.T) {
	svc, _, _ := newConductService(&mockConductRepo{}, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.FileServiceLog(context.Background(), "fac-1", dto.FileServiceLogRequest{
		StudentID:    uuid.NewString(),
		DaysDeducted: -1,
		Description:  "community clinic assist",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestFileServiceLogAllowsZeroDays(t *testing.T) {
	studentID := uuid.NewString()
	logs := &mockServiceLogRepo{}
	svc, _, _ := newConductService(&mockConductRepo{}, logs, &mockStudentRepo{
		student: &models.StudentProfile{ID: studentID},
	})

	log, err := svc.FileServiceLog(context.Background(), "fac-1", dto.FileServiceLogRequest{
		StudentID:   studentID,
		Description: "orientation attendance, no deduction",
	})
	require.NoError(t, err)
	assert.Zero(t, log.DaysDeducted)
	require.NotNil(t, logs.created)
}

func TestFileServiceLogInvalidatesBalance(t *testing.T) {
	studentID := uuid.NewString()
	logs := &mockServiceLogRepo{}
	svc, _, cache := newConductService(&mockConductRepo{}, logs, &mockStudentRepo{
		student: &models.StudentProfile{ID: studentID},
	})

	log, err := svc.FileServiceLog(context.Background(), "fac-1", dto.FileServiceLogRequest{
		StudentID:    studentID,
		DaysDeducted: 2,
		Description:  "community clinic assist",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, log.DaysDeducted)
	require.NotNil(t, logs.created)
	assert.Equal(t, []string{repository.BalanceKey(studentID)}, cache.deleted)
}

func pendingSeriousRow() *models.ConductRecordRow {
	return &models.ConductRecordRow{
		ConductRecord: models.ConductRecord{
			ID:              "rec-1",
			StudentID:       "stu-1",
			FacultyID:       "fac-1",
			Category:        models.CategoryDemerit,
			IsSerious:       true,
			SanctionContext: models.ContextOffice,
		},
	}
}

func TestResolveInfraction(t *testing.T) {
	records := &mockConductRepo{row: pendingSeriousRow()}
	svc, audit, cache := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	resolution, err := svc.ResolveInfraction(context.Background(), "adm-1", "rec-1", dto.ResolveInfractionRequest{
		FinalSanctionDays: 3,
		Notes:             "final warning issued",
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", resolution.ReportID)
	assert.Equal(t, "adm-1", resolution.AdminID)
	assert.Equal(t, 3, resolution.FinalSanctionDays)
	require.NotNil(t, records.resolved)

	assert.Equal(t, []string{repository.BalanceKey("stu-1")}, cache.deleted)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionResolution, audit.logs[0].Action)
}

func TestResolveInfractionRequiresNotes(t *testing.T) {
	records := &mockConductRepo{row: pendingSeriousRow()}
	svc, _, _ := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.ResolveInfraction(context.Background(), "adm-1", "rec-1", dto.ResolveInfractionRequest{
		FinalSanctionDays: 3,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "notes")
	assert.Nil(t, records.resolved)
}

func TestResolveInfractionNotFound(t *testing.T) {
	records := &mockConductRepo{rowErr: sql.ErrNoRows}
	svc, _, _ := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.ResolveInfraction(context.Background(), "adm-1", "missing", dto.ResolveInfractionRequest{Notes: "verified"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

func TestResolveInfractionRejectsNonSerious(t *testing.T) {
	row := pendingSeriousRow()
	row.IsSerious = false
	records := &mockConductRepo{row: row}
	svc, _, _ := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.ResolveInfraction(context.Background(), "adm-1", "rec-1", dto.ResolveInfractionRequest{Notes: "verified"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestResolveInfractionAlreadyResolved(t *testing.T) {
	row := pendingSeriousRow()
	row.Resolutions = []models.ResolutionRow{{InfractionResolution: models.InfractionResolution{ID: "res-1"}}}
	records := &mockConductRepo{row: row}
	svc, _, cache := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.ResolveInfraction(context.Background(), "adm-1", "rec-1", dto.ResolveInfractionRequest{Notes: "verified"})
	assert.Equal(t, appErrors.ErrIntegrity.Code, appErrorCode(t, err))
	assert.Empty(t, cache.deleted)
}

func TestResolveInfractionLosesRaceToUniqueConstraint(t *testing.T) {
	records := &mockConductRepo{row: pendingSeriousRow(), resolveErr: repository.ErrDuplicateResolution}
	svc, _, _ := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.ResolveInfraction(context.Background(), "adm-1", "rec-1", dto.ResolveInfractionRequest{Notes: "verified"})
	assert.Equal(t, appErrors.ErrIntegrity.Code, appErrorCode(t, err))
}

func TestResolveInfractionRepositoryFailure(t *testing.T) {
	records := &mockConductRepo{row: pendingSeriousRow(), resolveErr: errors.New("connection reset")}
	svc, _, _ := newConductService(records, &mockServiceLogRepo{}, &mockStudentRepo{})

	_, err := svc.ResolveInfraction(context.Background(), "adm-1", "rec-1", dto.ResolveInfractionRequest{Notes: "verified"})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrorCode(t, err))
}
