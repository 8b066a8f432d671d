package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ocrgate/internal/docs" // registers the swagger spec
	"ocrgate/internal/handler"
	"ocrgate/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	ocrH *handler.OCRHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ocr := r.Group("/ocr")
	ocr.POST("/upload", ocrH.Upload)
	ocr.GET("/health", ocrH.Health)
	ocr.GET("/stats", ocrH.Stats)
	ocr.GET("/model/info", ocrH.ModelInfo)

	return r
}
