package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/auth"
	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
)

// getDashboard handles GET /api/dashboard
// @Summary List dashboard events
// @Description Public view returns new and imported events of a city. With isAdmin=true every status is visible and status filters exactly.
// @Tags events
// @Produce json
// @Param status query string false "Status filter, admin view only" Enums(new, updated, inactive, imported)
// @Param search query string false "Case-insensitive text matched against title, venue name and description"
// @Param isAdmin query string false "Set to true for the admin view" example:"true"
// @Param startDate query string false "Earliest event date (YYYY-MM-DD or RFC 3339)" example:"2025-01-01"
// @Param endDate query string false "Latest event date, inclusive (YYYY-MM-DD or RFC 3339). A date-only value covers the whole day" example:"2025-01-31"
// @Param city query string false "City, defaults to Sydney" example:"Sydney"
// @Success 200 {array} domain.Event
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	var req dto.DashboardRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid dashboard request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	events, err := h.eventService.ListDashboard(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// getEvent handles GET /api/events/:id
// @Summary Get an event
// @Description Events with status updated or inactive are only returned to admins
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/events/{id} [get]
func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), auth.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// importEvent handles PATCH /api/events/:id/import
// @Summary Import an event
// @Description Marks an event as imported by the logged-in admin. Importing again overwrites the previous stamp.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body dto.ImportEventRequest false "Import notes"
// @Success 200 {object} domain.Event
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/events/{id}/import [patch]
func (h *Handler) importEvent(c *gin.Context) {
	principal := auth.PrincipalFrom(c)
	if principal == nil {
		h.respondError(c, domain.ErrUnauthorized)
		return
	}

	var req dto.ImportEventRequest

	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warn("Invalid import request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: bindingMessage(err),
		})
		return
	}

	event, err := h.eventService.ImportEvent(c.Request.Context(), principal, c.Param("id"), req.ImportNotes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}
