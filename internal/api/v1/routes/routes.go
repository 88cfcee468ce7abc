package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemini-transcriber/internal/api/middleware"
	"gemini-transcriber/internal/api/v1/handlers"
	"gemini-transcriber/internal/app/api"
	"gemini-transcriber/internal/app/model"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.Transcriber, container.Model, container.Logger)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("", middleware.MaxBodySize(model.MaxFileSize+middleware.MultipartOverhead), transcriptionHandler.Create)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	Transcriber api.Transcriber
	Model       string
	Logger      *zap.Logger
}
