package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/pkg/response"
)

// StudentRecordService exposes the student-facing read views.
type StudentRecordService interface {
	StudentRecords(ctx context.Context, studentID string) ([]dto.StudentConductRecord, error)
	StudentServiceLogs(ctx context.Context, studentID string) ([]dto.StudentServiceLog, error)
	Balance(ctx context.Context, studentID string) (*dto.BalanceSummary, error)
}

// StudentHandler serves a student's conduct ledger views.
type StudentHandler struct {
	service StudentRecordService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc StudentRecordService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Records godoc
// @Summary Student conduct records
// @Description List a student's conduct records with reporter and resolution detail
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/records [get]
func (h *StudentHandler) Records(c *gin.Context) {
	records, err := h.service.StudentRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ServiceLogs godoc
// @Summary Student service logs
// @Description List a student's extension-duty service logs
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/service-logs [get]
func (h *StudentHandler) ServiceLogs(c *gin.Context) {
	logs, err := h.service.StudentServiceLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Balance godoc
// @Summary Student sanction balance
// @Description Compute the student's balance under both reconciliation policies
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/balance [get]
func (h *StudentHandler) Balance(c *gin.Context) {
	summary, err := h.service.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
