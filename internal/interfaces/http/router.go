// Package http assembles the dashboard's HTTP surface: the gin route tree
// and the server lifecycle around it.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/prometheus"
	"github.com/onconet/healthai/internal/interfaces/http/handlers"
	"github.com/onconet/healthai/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required to
// construct the complete route tree.
type RouterConfig struct {
	WorkflowHandler  *handlers.WorkflowHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	HealthHandler    *handlers.HealthHandler

	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	Logger  logging.Logger
	Metrics *prometheus.Metrics
	Mode    string
}

// NewRouter constructs the route tree: global middleware, public health and
// metrics endpoints, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}
	r.Use(middleware.RequestLogging(logger, logCfg))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	registerWorkflowRoutes(api, cfg.WorkflowHandler)
	registerAnalyticsRoutes(api, cfg.AnalyticsHandler)

	return r
}

// registerWorkflowRoutes mounts task lifecycle endpoints under /workflows.
func registerWorkflowRoutes(r *gin.RouterGroup, h *handlers.WorkflowHandler) {
	if h == nil {
		return
	}
	wr := r.Group("/workflows")
	// The literal route must precede the :workflow wildcard group.
	wr.GET("/history", h.History)
	wr.POST("/:workflow/submit", h.Submit)
	wr.POST("/:workflow/poll", h.Poll)
	wr.GET("/:workflow/status", h.Status)
	wr.GET("/:workflow/result", h.Result)
}

// registerAnalyticsRoutes mounts dashboard view endpoints under /analytics.
func registerAnalyticsRoutes(r *gin.RouterGroup, h *handlers.AnalyticsHandler) {
	if h == nil {
		return
	}
	ar := r.Group("/analytics")
	ar.GET("/profile", h.SimilarProfile)
	ar.GET("/survival", h.PredictSurvival)
	ar.GET("/statistics", h.Statistics)
	ar.GET("/statistics/local", h.LocalStatistics)
	ar.GET("/stages", h.StageLabels)
}

//Personal.AI order the ending
