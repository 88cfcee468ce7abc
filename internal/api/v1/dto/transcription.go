package dto

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"gemini-transcriber/internal/api/errors"
	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
)

// FallbackMIMEType is used when neither the client nor the file extension
// names a media type
const FallbackMIMEType = "application/octet-stream"

// mediaTypes covers common media extensions that the platform MIME table
// may not know
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// UploadRequest is the multipart form carrying one media file
type UploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// Validate enforces the upload ceiling before the payload is read
func (r *UploadRequest) Validate() error {
	if r.File.Size > model.MaxFileSize {
		apiErr := errors.FromTranscription(apperrors.ErrFileTooLarge)
		apiErr.Details = map[string]string{
			"file": fmt.Sprintf("%d bytes exceeds the %d byte limit", r.File.Size, model.MaxFileSize),
		}
		return apiErr
	}
	return nil
}

// MIMEType returns the declared content type. A missing or generic type
// falls back to the file extension.
func (r *UploadRequest) MIMEType() string {
	if ct := r.File.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil && mediaType != FallbackMIMEType {
			return mediaType
		}
	}
	ext := strings.ToLower(filepath.Ext(r.File.Filename))
	if known, ok := mediaTypes[ext]; ok {
		return known
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return FallbackMIMEType
}

// ToUploadedFile loads the form file into memory. The multipart temp file is
// removed when the request ends, so the bytes must be copied out. An oversized
// header yields a metadata-only file that the session rejects.
func (r *UploadRequest) ToUploadedFile() (*model.UploadedFile, error) {
	if r.File.Size > model.MaxFileSize {
		return model.NewUploadedFileFromSource(r.File.Filename, r.MIMEType(), r.File.Size, nil), nil
	}

	f, err := r.File.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", r.File.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, model.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", r.File.Filename, err)
	}
	return model.NewUploadedFile(r.File.Filename, r.MIMEType(), data), nil
}

// OversizedFile stands in for an upload whose body was cut off by the size
// limit before the form could be parsed
func OversizedFile(contentLength int64) *model.UploadedFile {
	size := contentLength
	if size <= model.MaxFileSize {
		size = model.MaxFileSize + 1
	}
	return model.NewUploadedFileFromSource("", "", size, nil)
}

// TranscriptionResponse is returned by the synchronous transcription API
type TranscriptionResponse struct {
	Transcript       string `json:"transcript"`
	FileName         string `json:"file_name"`
	FileSize         int64  `json:"file_size"`
	MIMEType         string `json:"mime_type"`
	Model            string `json:"model,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model,omitempty"`
	Sessions  int    `json:"sessions"`
	Timestamp int64  `json:"timestamp"`
}
