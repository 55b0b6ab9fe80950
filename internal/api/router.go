package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Hinderager/web-agency-outreach/internal/api/handler"
	"github.com/Hinderager/web-agency-outreach/internal/api/middleware"
	"github.com/Hinderager/web-agency-outreach/internal/config"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
	"github.com/Hinderager/web-agency-outreach/internal/pipeline"
	"github.com/Hinderager/web-agency-outreach/internal/repository"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	manager *pipeline.Manager,
	runRepo *repository.RunRepository,
	log *logger.Logger,
	srvCfg config.ServerConfig,
) *gin.Engine {
	// Set Gin mode
	switch srvCfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  srvCfg.CORS.AllowedOrigins,
		AllowAllOrigins: srvCfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	triggerHandler := handler.NewTriggerHandler(manager)
	runsHandler := handler.NewRunsHandler(runRepo, log)

	// Service description
	r.GET("/", triggerHandler.Root)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Pipeline control
	r.POST("/trigger", triggerHandler.Trigger)
	r.GET("/status", triggerHandler.Status)

	// Run ledger
	r.GET("/runs", runsHandler.ListRuns)

	return r
}
