package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sydneyevents/event-listing-service/internal/auth"
	"github.com/sydneyevents/event-listing-service/internal/logger"
)

// googleLogin handles GET /auth/google
// @Summary Start Google login
// @Tags auth
// @Success 302
// @Router /auth/google [get]
func (h *Handler) googleLogin(c *gin.Context) {
	target, err := h.sessions.Begin(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, target)
}

// googleCallback handles GET /auth/google/callback
// @Summary Finish Google login
// @Description Creates a session and redirects to the frontend dashboard, or to the login page on failure
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string false "Authorization code"
// @Success 302
// @Router /auth/google/callback [get]
func (h *Handler) googleCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		h.log.Warn("Login declined by provider", zap.String("reason", reason))
		c.Redirect(http.StatusFound, h.frontendURL(h.cfg.OAuth.LoginFailurePath))
		return
	}

	if _, err := h.sessions.Complete(c, c.Query("state"), c.Query("code")); err != nil {
		h.log.Warn("Login failed",
			zap.Error(err),
			zap.String("request_id", logger.GetRequestID(c)))
		c.Redirect(http.StatusFound, h.frontendURL(h.cfg.OAuth.LoginFailurePath))
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL("/dashboard"))
}

// currentUser handles GET /auth/current_user and GET /api/current_user
// @Summary Current user
// @Description Returns the logged-in principal, or an empty body when there is no session
// @Tags auth
// @Produce json
// @Success 200 {object} domain.Principal
// @Router /auth/current_user [get]
func (h *Handler) currentUser(c *gin.Context) {
	principal := auth.PrincipalFrom(c)
	if principal == nil {
		c.Status(http.StatusOK)
		return
	}

	c.JSON(http.StatusOK, principal)
}

// logout handles GET /auth/logout
// @Summary Log out
// @Tags auth
// @Success 302
// @Router /auth/logout [get]
func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		h.log.Error("Failed to destroy session", zap.Error(err))
	}

	c.Redirect(http.StatusFound, h.frontendURL("/"))
}

func (h *Handler) frontendURL(path string) string {
	return strings.TrimRight(h.cfg.Service.FrontendURL, "/") + path
}
