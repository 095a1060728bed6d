package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type studentServiceMock struct {
	records    []dto.StudentConductRecord
	logs       []dto.StudentServiceLog
	balance    *dto.BalanceSummary
	err        error
	lastID     string
	balanceHit bool
}

func (m *studentServiceMock) StudentRecords(ctx context.Context, studentID string) ([]dto.StudentConductRecord, error) {
	m.lastID = studentID
	return m.records, m.err
}

func (m *studentServiceMock) StudentServiceLogs(ctx context.Context, studentID string) ([]dto.StudentServiceLog, error) {
	m.lastID = studentID
	return m.logs, m.err
}

func (m *studentServiceMock) Balance(ctx context.Context, studentID string) (*dto.BalanceSummary, error) {
	m.lastID = studentID
	m.balanceHit = true
	return m.balance, m.err
}

func getContext(t *testing.T, path, id string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id}}
	return c, w
}

func TestStudentRecordsEndpoint(t *testing.T) {
	mockSvc := &studentServiceMock{records: []dto.StudentConductRecord{{ID: "rec-1"}}}
	h := NewStudentHandler(mockSvc)

	c, w := getContext(t, "/students/stu-1/records", "stu-1")
	h.Records(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", mockSvc.lastID)
}

func TestStudentBalanceEndpoint(t *testing.T) {
	mockSvc := &studentServiceMock{balance: &dto.BalanceSummary{StudentID: "stu-1", RemainingBalance: 4}}
	h := NewStudentHandler(mockSvc)

	c, w := getContext(t, "/students/stu-1/balance", "stu-1")
	h.Balance(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.balanceHit)
	assert.Contains(t, w.Body.String(), `"remaining_balance":4`)
}

func TestStudentRecordsNotFound(t *testing.T) {
	mockSvc := &studentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}
	h := NewStudentHandler(mockSvc)

	c, w := getContext(t, "/students/ghost/records", "ghost")
	h.Records(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
