package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/auth"
	"github.com/sydneyevents/event-listing-service/internal/dto"
)

// createLead handles POST /api/tickets
// @Summary Capture a ticket lead
// @Description Records an email address interested in tickets. eventId is optional and must reference an existing event.
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body dto.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.Lead
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tickets [post]
func (h *Handler) createLead(c *gin.Context) {
	var req dto.CreateLeadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid lead request",
			zap.Error(err),
			zap.String("event_id", req.EventID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: bindingMessage(err),
		})
		return
	}

	lead, err := h.leadService.CaptureLead(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// listLeads handles GET /api/leads
// @Summary List ticket leads
// @Description Returns every captured lead, newest first, with the event title resolved. Admin only.
// @Tags leads
// @Produce json
// @Success 200 {array} domain.LeadWithEvent
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/leads [get]
func (h *Handler) listLeads(c *gin.Context) {
	leads, err := h.leadService.ListLeads(c.Request.Context(), auth.PrincipalFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, leads)
}
