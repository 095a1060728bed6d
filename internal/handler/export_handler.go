package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vsu-ncs/conduct-api/internal/service"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
	"github.com/vsu-ncs/conduct-api/pkg/response"
)

// ConductExportService renders a student's conduct history for download.
type ConductExportService interface {
	ConductHistory(ctx context.Context, actorID, studentID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler serves conduct-history downloads.
type ExportHandler struct {
	service ConductExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc ConductExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export conduct history
// @Description Download a student's conduct history as CSV or PDF
// @Tags Students
// @Produce text/csv,application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param format query string false "Export format" Enums(csv, pdf) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", string(service.FormatCSV))
	result, err := h.service.ConductHistory(c.Request.Context(), claims.UserID, c.Param("id"), service.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
