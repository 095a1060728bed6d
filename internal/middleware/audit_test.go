package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vsu-ncs/conduct-api/internal/models"
)

type auditSink struct {
	logs []*models.AuditLog
}

func (s *auditSink) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func TestAuditRecordsSuccessfulWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &auditSink{}
	r := gin.New()
	r.POST("/conduct-records", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty})
	}, Audit(sink, models.AuditActionAPIWrite, "conduct_records"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"filed": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/conduct-records", nil)
	req.Header.Set("User-Agent", "conduct-portal/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, sink.logs, 1)
	entry := sink.logs[0]
	require.Equal(t, models.AuditActionAPIWrite, entry.Action)
	require.Equal(t, "conduct_records", entry.Resource)
	require.NotNil(t, entry.UserID)
	require.Equal(t, "fac-1", *entry.UserID)
	require.Equal(t, "conduct-portal/1.0", entry.UserAgent)
}

func TestAuditSkipsFailedRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &auditSink{}
	r := gin.New()
	r.POST("/conduct-records", Audit(sink, models.AuditActionAPIWrite, "conduct_records"), func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/conduct-records", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, sink.logs)
}
