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

type infractionQueueMock struct {
	tickets     []dto.InfractionTicket
	err         error
	lastStatus  string
	lastFaculty string
}

func (m *infractionQueueMock) Infractions(ctx context.Context, status, facultyID string) ([]dto.InfractionTicket, error) {
	m.lastStatus = status
	m.lastFaculty = facultyID
	return m.tickets, m.err
}

type infractionResolveMock struct {
	resolution   *models.InfractionResolution
	err          error
	lastAdminID  string
	lastReportID string
}

func (m *infractionResolveMock) ResolveInfraction(ctx context.Context, adminID, reportID string, req dto.ResolveInfractionRequest) (*models.InfractionResolution, error) {
	m.lastAdminID = adminID
	m.lastReportID = reportID
	return m.resolution, m.err
}

func TestInfractionListPassesStatusFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	queue := &infractionQueueMock{tickets: []dto.InfractionTicket{{ID: "rec-1"}}}
	h := NewInfractionHandler(queue, &infractionResolveMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/infractions?status=Pending", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "adm-1", Role: models.RoleAdmin})

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pending", queue.lastStatus)
	assert.Empty(t, queue.lastFaculty)
}

func TestInfractionListScopesFacultyToOwnFilings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	queue := &infractionQueueMock{}
	h := NewInfractionHandler(queue, &infractionResolveMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/infractions", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "fac-7", Role: models.RoleFaculty})

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fac-7", queue.lastFaculty)
}

func TestInfractionResolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolve := &infractionResolveMock{resolution: &models.InfractionResolution{ID: "res-1"}}
	h := NewInfractionHandler(&infractionQueueMock{}, resolve)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/infractions/rec-1/resolve", bytes.NewBufferString(`{"final_sanction_days":3,"notes":"final warning"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "rec-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "adm-1", Role: models.RoleAdmin})

	h.Resolve(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "adm-1", resolve.lastAdminID)
	assert.Equal(t, "rec-1", resolve.lastReportID)
}

func TestInfractionResolveConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolve := &infractionResolveMock{err: appErrors.Clone(appErrors.ErrIntegrity, "report is already resolved")}
	h := NewInfractionHandler(&infractionQueueMock{}, resolve)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/infractions/rec-1/resolve", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "rec-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "adm-1", Role: models.RoleAdmin})

	h.Resolve(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInfractionResolveWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInfractionHandler(&infractionQueueMock{}, &infractionResolveMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/infractions/rec-1/resolve", bytes.NewBufferString(`{}`))
	c.Request = req

	h.Resolve(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
