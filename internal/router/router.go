package router

import (
	"github.com/gin-gonic/gin"

	"heliogen/internal/handler"
	"heliogen/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	generationH *handler.GenerationHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	generation := v1.Group("/generation")
	generation.POST("/aggregate", generationH.Aggregate)
	generation.PUT("/:id", generationH.Correct)
	generation.POST("/report", reportH.Project)

	reports := v1.Group("/reports")
	reports.POST("/export", reportH.Export)

	return r
}
