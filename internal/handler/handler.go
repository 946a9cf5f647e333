package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sydneyevents/event-listing-service/docs"
	"github.com/sydneyevents/event-listing-service/internal/auth"
	"github.com/sydneyevents/event-listing-service/internal/config"
	"github.com/sydneyevents/event-listing-service/internal/domain"
	"github.com/sydneyevents/event-listing-service/internal/dto"
	"github.com/sydneyevents/event-listing-service/internal/logger"
	"github.com/sydneyevents/event-listing-service/internal/metrics"
	"github.com/sydneyevents/event-listing-service/internal/service"
)

const (
	healthTimeout         = 2 * time.Second
	genericInternalError  = "Something went wrong on the server"
	unauthenticatedReason = "Please log in first"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	eventService service.EventServicer
	leadService  service.LeadServicer
	sessions     *auth.Manager
	store        Pinger
	cfg          *config.Config
	router       *gin.Engine
	log          *zap.Logger
}

func NewHandler(
	eventService service.EventServicer,
	leadService service.LeadServicer,
	sessions *auth.Manager,
	store Pinger,
	cfg *config.Config,
	log *zap.Logger,
) *Handler {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(service.JSONFieldName)
	}

	h := &Handler{
		eventService: eventService,
		leadService:  leadService,
		sessions:     sessions,
		store:        store,
		cfg:          cfg,
		router:       gin.New(),
		log:          log,
	}

	h.router.Use(
		logger.RequestID(),
		logger.GinRecovery(log),
		logger.GinLogger(log),
		metrics.GinMiddleware(),
		cors.New(corsConfig(&cfg.Service)),
		sessions.LoadSession(),
	)

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := h.router.Group("/auth")
	authGroup.GET("/google", h.googleLogin)
	authGroup.GET("/google/callback", h.googleCallback)
	authGroup.GET("/current_user", h.currentUser)
	authGroup.GET("/logout", h.logout)

	leadLimiter := newIPRateLimiter(h.cfg.RateLimit.LeadsPerSecond, h.cfg.RateLimit.LeadsBurst)

	api := h.router.Group("/api")
	api.GET("/dashboard", h.getDashboard)
	api.GET("/events/:id", h.getEvent)
	api.PATCH("/events/:id/import", h.importEvent)
	api.POST("/tickets", leadLimiter.middleware(), h.createLead)
	api.GET("/leads", h.listLeads)
	api.GET("/current_user", h.currentUser)
}

// corsConfig allows credentialed requests from the frontend and the configured origins only
func corsConfig(cfg *config.Service) cors.Config {
	seen := make(map[string]struct{})
	origins := make([]string, 0, len(cfg.AllowedOrigins)+1)
	for _, o := range append([]string{cfg.FrontendURL}, cfg.AllowedOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service and its event store are reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status: "unavailable",
			Store:  "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Store:  "ok",
	})
}

// respondError maps service errors to a status code and error body
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "unauthorized",
			Message: unauthenticatedReason,
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "forbidden",
			Message: "Admin access required",
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: "Event not found",
		})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	default:
		h.log.Error("Request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", logger.GetRequestID(c)))

		message := err.Error()
		if h.cfg.IsProduction() {
			message = genericInternalError
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: message,
		})
	}
}

// bindingMessage describes a request binding failure
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return service.DescribeValidation(err)
	}
	return "request body must be valid JSON"
}
