package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
)

// contentGenerator is the subset of *genai.Models the transcriber needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the Gemini client
type Config struct {
	APIKey string
	// Model defaults to DefaultModel.
	Model string
	// BaseURL overrides the Gemini endpoint (tests, proxies).
	BaseURL    string
	HTTPClient *http.Client
}

// Transcriber implements api.Transcriber using the Gemini generateContent API
type Transcriber struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewTranscriber creates a Gemini-backed transcriber
func NewTranscriber(ctx context.Context, cfg Config, logger *zap.Logger) (*Transcriber, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newTranscriber(client.Models, cfg.Model, logger), nil
}

func newTranscriber(models contentGenerator, modelName string, logger *zap.Logger) *Transcriber {
	if modelName == "" {
		modelName = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{
		models: models,
		model:  modelName,
		logger: logger.Named("gemini"),
	}
}

// Model returns the model identifier sent with every request
func (t *Transcriber) Model() string {
	return t.model
}

// Transcribe reads the file, sends it with the fixed prompt and returns the
// transcript verbatim. This call can take minutes for large files.
func (t *Transcriber) Transcribe(ctx context.Context, file *model.UploadedFile) (string, error) {
	if file == nil {
		return "", apperrors.Wrapf(apperrors.CategoryEncodingFailed, "no file")
	}
	if file.TooLarge() {
		return "", apperrors.Wrapf(apperrors.CategoryFileTooLarge,
			"%s is %d bytes (max %d)", file.Name, file.Size, model.MaxFileSize)
	}

	data, err := encodePayload(ctx, file)
	if err != nil {
		t.logger.Warn("failed to read upload", zap.String("file", file.Name), zap.Error(err))
		return "", apperrors.Wrap(fmt.Errorf("%s: %w", file.Name, err), apperrors.CategoryEncodingFailed)
	}
	if int64(len(data)) > model.MaxFileSize {
		return "", apperrors.Wrapf(apperrors.CategoryFileTooLarge,
			"%s exceeds %d bytes", file.Name, model.MaxFileSize)
	}

	t.logger.Info("sending transcription request",
		zap.String("model", t.model),
		zap.String("file", file.Name),
		zap.String("mime_type", file.MIMEType),
		zap.Int("bytes", len(data)),
	)

	start := time.Now()
	resp, err := t.models.GenerateContent(ctx, t.model, buildContents(file.MIMEType, data), nil)
	latency := time.Since(start)
	if err != nil {
		category := classify(err)
		t.logger.Error("transcription request failed",
			zap.String("file", file.Name),
			zap.String("category", string(category)),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return "", apperrors.Wrap(err, category)
	}

	var transcript string
	if resp != nil {
		transcript = resp.Text()
	}
	if transcript == "" {
		t.logger.Warn("empty transcript", zap.String("file", file.Name), zap.Duration("latency", latency))
		return "", apperrors.Wrapf(apperrors.CategoryEmptyResponse, "no text in response for %s", file.Name)
	}

	t.logger.Info("transcription completed",
		zap.String("file", file.Name),
		zap.Int("chars", len(transcript)),
		zap.Duration("latency", latency),
	)
	return transcript, nil
}
