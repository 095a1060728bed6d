package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/models"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
	"github.com/vsu-ncs/conduct-api/pkg/response"
)

// ConductMutationService is the single write path into the conduct ledger.
type ConductMutationService interface {
	FileConductRecord(ctx context.Context, facultyID string, req dto.FileConductRecordRequest) (*models.ConductRecord, error)
	FileServiceLog(ctx context.Context, facultyID string, req dto.FileServiceLogRequest) (*models.ServiceLog, error)
}

// ConductHandler wires the filing endpoints to the conduct service.
type ConductHandler struct {
	service ConductMutationService
}

// NewConductHandler creates a new handler.
func NewConductHandler(svc ConductMutationService) *ConductHandler {
	return &ConductHandler{service: svc}
}

// FileRecord godoc
// @Summary File a conduct record
// @Description File a merit, demerit or serious infraction against a student
// @Tags Conduct
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.FileConductRecordRequest true "Conduct record payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /conduct-records [post]
func (h *ConductHandler) FileRecord(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.FileConductRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conduct record payload"))
		return
	}

	record, err := h.service.FileConductRecord(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record, "conduct record filed")
}

// FileServiceLog godoc
// @Summary File a service log
// @Description Credit extension duty served against a student's balance
// @Tags Conduct
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.FileServiceLogRequest true "Service log payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /service-logs [post]
func (h *ConductHandler) FileServiceLog(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.FileServiceLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid service log payload"))
		return
	}

	log, err := h.service.FileServiceLog(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, log, "service log filed")
}
