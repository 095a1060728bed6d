package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/middleware"
	"github.com/vsu-ncs/conduct-api/internal/models"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type conductServiceMock struct {
	record        *models.ConductRecord
	recordErr     error
	log           *models.ServiceLog
	logErr        error
	lastFacultyID string
	lastRecordReq dto.FileConductRecordRequest
}

func (m *conductServiceMock) FileConductRecord(ctx context.Context, facultyID string, req dto.FileConductRecordRequest) (*models.ConductRecord, error) {
	m.lastFacultyID = facultyID
	m.lastRecordReq = req
	return m.record, m.recordErr
}

func (m *conductServiceMock) FileServiceLog(ctx context.Context, facultyID string, req dto.FileServiceLogRequest) (*models.ServiceLog, error) {
	m.lastFacultyID = facultyID
	return m.log, m.logErr
}

func postContext(t *testing.T, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestFileRecordUsesCallerAsReporter(t *testing.T) {
	mockSvc := &conductServiceMock{record: &models.ConductRecord{ID: "rec-1"}}
	h := NewConductHandler(mockSvc)

	c, w := postContext(t, `{"student_id":"stu-1","category":"demerit","description":"late","sanction_days":1,"sanction_context":"office"}`,
		&models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty})

	h.FileRecord(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "fac-1", mockSvc.lastFacultyID)
	assert.Equal(t, "stu-1", mockSvc.lastRecordReq.StudentID)
}

func TestFileRecordRejectsMalformedBody(t *testing.T) {
	h := NewConductHandler(&conductServiceMock{})

	c, w := postContext(t, `{"student_id":`, &models.JWTClaims{UserID: "fac-1"})

	h.FileRecord(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileRecordWithoutClaims(t *testing.T) {
	h := NewConductHandler(&conductServiceMock{})

	c, w := postContext(t, `{}`, nil)

	h.FileRecord(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFileRecordServiceError(t *testing.T) {
	mockSvc := &conductServiceMock{recordErr: appErrors.ErrNotFound}
	h := NewConductHandler(mockSvc)

	c, w := postContext(t, `{"student_id":"ghost"}`, &models.JWTClaims{UserID: "fac-1"})

	h.FileRecord(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileServiceLog(t *testing.T) {
	mockSvc := &conductServiceMock{log: &models.ServiceLog{ID: "log-1", DaysDeducted: 2}}
	h := NewConductHandler(mockSvc)

	c, w := postContext(t, `{"student_id":"stu-1","days_deducted":2,"description":"clinic assist"}`,
		&models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty})

	h.FileServiceLog(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "fac-1", mockSvc.lastFacultyID)
}
