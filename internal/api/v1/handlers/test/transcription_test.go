package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gemini-transcriber/internal/api/middleware"
	"gemini-transcriber/internal/api/v1/dto"
	"gemini-transcriber/internal/api/v1/routes"
	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
	"gemini-transcriber/internal/app/testutil"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockTranscriber) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zap.NewNop()))

	transcriber := testutil.NewMockTranscriber(t)
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		Transcriber: transcriber,
		Model:       "gemini-2.5-flash",
	})
	return router, transcriber
}

func postUpload(router *gin.Engine, t *testing.T, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	body, formType := testutil.MultipartFile(t, "file", filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", body)
	req.Header.Set("Content-Type", formType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTranscriptionHandler_Create(t *testing.T) {
	router, transcriber := setupTestRouter(t)
	transcriber.On("Transcribe", mock.Anything, mock.MatchedBy(func(f *model.UploadedFile) bool {
		return f.Name == "interview.mp4" && f.MIMEType == "video/mp4" && f.Size == 6
	})).Return(testutil.SampleTranscript, nil)

	w := postUpload(router, t, "interview.mp4", "video/mp4", []byte("frames"))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testutil.SampleTranscript, resp.Transcript)
	assert.Equal(t, "interview.mp4", resp.FileName)
	assert.Equal(t, int64(6), resp.FileSize)
	assert.Equal(t, "video/mp4", resp.MIMEType)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.GreaterOrEqual(t, resp.ProcessingTimeMs, int64(0))
	transcriber.AssertExpectations(t)
}

func TestTranscriptionHandler_PassesBytesThrough(t *testing.T) {
	router, transcriber := setupTestRouter(t)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("ok", nil)
	payload := []byte{0x00, 0x01, 0xfe, 0xff, 'i', 'd', '3'}

	w := postUpload(router, t, "voice.mp3", "audio/mpeg", payload)

	require.Equal(t, http.StatusOK, w.Code)
	files := transcriber.Files()
	require.Len(t, files, 1)
	rc, err := files[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	buf := make([]byte, 64)
	n, _ := rc.Read(buf)
	assert.Equal(t, payload, buf[:n])
}

func TestTranscriptionHandler_MIMEFallback(t *testing.T) {
	testCases := []struct {
		name        string
		filename    string
		contentType string
		expected    string
	}{
		{"declared type wins", "clip.bin", "audio/wav", "audio/wav"},
		{"parameters are dropped", "clip.webm", "video/webm; codecs=vp9", "video/webm"},
		{"generic type uses extension", "clip.mp4", "application/octet-stream", "video/mp4"},
		{"missing type uses extension", "song.mp3", "", "audio/mpeg"},
		{"unknown extension", "clip.zzz", "", dto.FallbackMIMEType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, transcriber := setupTestRouter(t)
			transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("ok", nil)

			w := postUpload(router, t, tc.filename, tc.contentType, []byte("data"))

			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, transcriber.Files(), 1)
			assert.Equal(t, tc.expected, transcriber.Files()[0].MIMEType)
		})
	}
}

func TestTranscriptionHandler_MissingFile(t *testing.T) {
	router, transcriber := setupTestRouter(t)

	body, formType := testutil.MultipartFields(t, map[string]string{"note": "no file"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", body)
	req.Header.Set("Content-Type", formType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var errBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "validation", errBody["kind"])
	assert.NotNil(t, errBody["details"])
	assert.NotEmpty(t, errBody["request_id"])
	assert.Equal(t, 0, transcriber.CallCount())
}

func TestTranscriptionHandler_Failures(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		status   int
		category apperrors.Category
	}{
		{"encoding failed", apperrors.Wrapf(apperrors.CategoryEncodingFailed, "read"), http.StatusBadRequest, apperrors.CategoryEncodingFailed},
		{"auth", apperrors.Wrapf(apperrors.CategoryAuth, "403"), http.StatusBadGateway, apperrors.CategoryAuth},
		{"payload too large", apperrors.Wrapf(apperrors.CategoryPayloadTooLarge, "413"), http.StatusRequestEntityTooLarge, apperrors.CategoryPayloadTooLarge},
		{"transport", apperrors.Wrapf(apperrors.CategoryTransport, "dial tcp: refused"), http.StatusBadGateway, apperrors.CategoryTransport},
		{"empty response", apperrors.ErrEmptyResponse, http.StatusBadGateway, apperrors.CategoryEmptyResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, transcriber := setupTestRouter(t)
			transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("", tc.err)

			w := postUpload(router, t, "clip.mp4", "video/mp4", []byte("frames"))

			assert.Equal(t, tc.status, w.Code)
			var errBody map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
			assert.Equal(t, string(tc.category), errBody["code"])
			assert.Equal(t, apperrors.New(tc.category).Message(), errBody["message"])
		})
	}
}
