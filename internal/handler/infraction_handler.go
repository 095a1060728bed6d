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

// InfractionQueueService lists the adjudication queue. A non-empty facultyID
// scopes the queue to that reporter's own filings.
type InfractionQueueService interface {
	Infractions(ctx context.Context, status, facultyID string) ([]dto.InfractionTicket, error)
}

// InfractionResolveService records adjudication outcomes.
type InfractionResolveService interface {
	ResolveInfraction(ctx context.Context, adminID, reportID string, req dto.ResolveInfractionRequest) (*models.InfractionResolution, error)
}

// InfractionHandler serves the serious-infraction adjudication endpoints.
type InfractionHandler struct {
	queue   InfractionQueueService
	resolve InfractionResolveService
}

// NewInfractionHandler creates a new handler.
func NewInfractionHandler(queue InfractionQueueService, resolve InfractionResolveService) *InfractionHandler {
	return &InfractionHandler{queue: queue, resolve: resolve}
}

// List godoc
// @Summary List serious infractions
// @Description List the adjudication queue, optionally filtered by status. Faculty callers see only their own filings.
// @Tags Infractions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Workflow status" Enums(Pending, Resolved)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /infractions [get]
func (h *InfractionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	facultyScope := ""
	if claims.Role == models.RoleFaculty {
		facultyScope = claims.UserID
	}

	tickets, err := h.queue.Infractions(c.Request.Context(), c.Query("status"), facultyScope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tickets, nil)
}

// Resolve godoc
// @Summary Resolve a serious infraction
// @Description Record the adjudication outcome for a pending serious infraction
// @Tags Infractions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.ResolveInfractionRequest true "Resolution payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /infractions/{id}/resolve [post]
func (h *InfractionHandler) Resolve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ResolveInfractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resolution payload"))
		return
	}

	resolution, err := h.resolve.ResolveInfraction(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, resolution, "infraction resolved")
}
