package web

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemini-transcriber/internal/api/middleware"
	"gemini-transcriber/internal/app/model"
	"gemini-transcriber/internal/app/session"
	"gemini-transcriber/web/handlers"
)

// Options configures the browser UI
type Options struct {
	Store *session.Store
	// BaseContext bounds background transcriptions
	BaseContext context.Context
	Model       string
	Logger      *zap.Logger
}

// Mount registers the UI pages, actions and static assets on router
func Mount(router *gin.Engine, opts Options) error {
	tmpl, err := Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	baseCtx := opts.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	ui := handlers.NewUIHandler(opts.Store, baseCtx, opts.Model, opts.Logger)
	static := handlers.NewStaticHandler(Static())

	router.GET("/", ui.Index)
	router.GET("/session", ui.Session)
	router.POST("/file", middleware.MaxBodySize(model.MaxFileSize+middleware.MultipartOverhead), ui.SelectFile)
	router.POST("/file/clear", ui.ClearFile)
	router.POST("/transcribe", ui.Transcribe)
	router.POST("/copy", ui.Copy)
	router.POST("/reset", ui.Reset)
	router.GET("/static/*filepath", static.ServeStatic)

	return nil
}
