package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemini-transcriber/internal/api/errors"
	"gemini-transcriber/internal/api/middleware"
	"gemini-transcriber/internal/api/v1/dto"
	"gemini-transcriber/internal/app/api"
	"gemini-transcriber/internal/app/common"
	apperrors "gemini-transcriber/internal/app/errors"
)

// TranscriptionHandler handles transcription-related API endpoints
type TranscriptionHandler struct {
	transcriber api.Transcriber
	model       string
	logger      *zap.Logger
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(transcriber api.Transcriber, model string, logger *zap.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		transcriber: transcriber,
		model:       model,
		logger:      common.OrNop(logger),
	}
}

// Create handles POST /api/v1/transcriptions
// Transcribes one uploaded file and waits for the result
//
// @Summary Transcribe a video or audio file
// @Description Uploads one media file (at most 100 MB) and returns a speaker-labeled Japanese transcript. The call blocks until the model answers.
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video or audio file"
// @Success 200 {object} dto.TranscriptionResponse "Transcript"
// @Failure 400 {object} errors.APIError "Unreadable upload"
// @Failure 413 {object} errors.APIError "File larger than 100 MB or rejected by the model as too large"
// @Failure 422 {object} errors.APIError "Missing file field"
// @Failure 502 {object} errors.APIError "Model rejected the credential, was unreachable, or returned no text"
// @Router /transcriptions [post]
func (h *TranscriptionHandler) Create(c *gin.Context) {
	var req dto.UploadRequest
	if err := middleware.ValidateUpload(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	file, err := req.ToUploadedFile()
	if err != nil {
		middleware.HandleError(c, errors.FromTranscription(apperrors.Wrap(err, apperrors.CategoryEncodingFailed)))
		return
	}

	start := time.Now()
	transcript, err := h.transcriber.Transcribe(c.Request.Context(), file)
	if err != nil {
		h.logger.Warn("API transcription failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("file", file.Name),
			zap.Error(err),
		)
		middleware.HandleError(c, errors.FromTranscription(err))
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptionResponse{
		Transcript:       transcript,
		FileName:         file.Name,
		FileSize:         file.Size,
		MIMEType:         file.MIMEType,
		Model:            h.model,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}
