package api

import (
	"context"

	"gemini-transcriber/internal/app/model"
)

// Transcriber converts an uploaded media file into a speaker-labeled transcript.
// Failures are *errors.Error values from internal/app/errors.
type Transcriber interface {
	Transcribe(ctx context.Context, file *model.UploadedFile) (string, error)
}
