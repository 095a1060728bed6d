package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/pkg/response"
)

// FacultyRecordService exposes the reporter-facing read views.
type FacultyRecordService interface {
	FacultyRecords(ctx context.Context, facultyID string) ([]dto.FacultyConductRecord, error)
	FacultyServiceLogs(ctx context.Context, facultyID string) ([]dto.FacultyServiceLog, error)
}

// FacultyHandler serves a faculty member's filed records.
type FacultyHandler struct {
	service FacultyRecordService
}

// NewFacultyHandler creates a new handler.
func NewFacultyHandler(svc FacultyRecordService) *FacultyHandler {
	return &FacultyHandler{service: svc}
}

// Records godoc
// @Summary Faculty conduct records
// @Description List conduct records filed by a faculty member
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /faculty/{id}/records [get]
func (h *FacultyHandler) Records(c *gin.Context) {
	records, err := h.service.FacultyRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ServiceLogs godoc
// @Summary Faculty service logs
// @Description List service logs filed by a faculty member
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /faculty/{id}/service-logs [get]
func (h *FacultyHandler) ServiceLogs(c *gin.Context) {
	logs, err := h.service.FacultyServiceLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
