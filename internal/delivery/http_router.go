package delivery

import (
	"time"

	"adwise/internal/delivery/middleware"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// Ordinary requests get a timeout; analysis calls run as long as the
	// upstream needs.
	bounded := middleware.Timeout(30 * time.Second)

	v1 := router.Group("/api/v1")
	{
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", bounded, r.handlers.CreateCampaign)
			campaigns.GET("", bounded, r.handlers.ListCampaigns)
			campaigns.GET("/:id", bounded, r.handlers.GetCampaign)
			campaigns.POST("/:id/analyze", r.handlers.AnalyzeCampaign)
			campaigns.POST("/bulk-analyze", r.handlers.BulkAnalyze)
			campaigns.POST("/bulk-upload", bounded, r.handlers.BulkUpload)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", bounded, r.handlers.GetDashboardSummary)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
