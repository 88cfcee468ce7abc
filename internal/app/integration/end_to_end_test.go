//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-transcriber/internal/api/server"
	"gemini-transcriber/internal/api/v1/dto"
	"gemini-transcriber/internal/app/api/gemini"
	"gemini-transcriber/internal/app/metrics"
	"gemini-transcriber/internal/app/testutil"
	"gemini-transcriber/internal/config"
)

const testAPIKey = "AIzaIntegration-0123456789abcdefghij"

type stack struct {
	gemini *MockGeminiServer
	app    *httptest.Server
	client *http.Client
}

func newStack(t *testing.T, fallback MockResponse) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := NewMockGeminiServer(t, fallback)
	transcriber, err := gemini.NewTranscriber(context.Background(), gemini.Config{
		APIKey:  testAPIKey,
		BaseURL: fake.URL(),
	}, nil)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	srv, err := server.NewServer(config.DefaultServerConfig(), server.Dependencies{
		Transcriber: metrics.NewTranscriptionMetrics(registry).Instrument(transcriber),
		Model:       transcriber.Model(),
		Gatherer:    registry,
	}, nil)
	require.NoError(t, err)

	app := httptest.NewServer(srv.Router())
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &stack{
		gemini: fake,
		app:    app,
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (s *stack) postJSON(t *testing.T, path, contentType string, body io.Reader) (*http.Response, dto.SessionResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.app.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var view dto.SessionResponse
	_ = json.NewDecoder(resp.Body).Decode(&view)
	return resp, view
}

func (s *stack) waitForState(t *testing.T, state string) dto.SessionResponse {
	t.Helper()
	var view dto.SessionResponse
	require.Eventually(t, func() bool {
		resp, err := s.client.Get(s.app.URL + "/session")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		view = dto.SessionResponse{}
		return json.NewDecoder(resp.Body).Decode(&view) == nil && view.State == state
	}, 5*time.Second, 10*time.Millisecond)
	return view
}

// TestEndToEndWorkflow drives the browser flow against a fake Gemini backend
func TestEndToEndWorkflow(t *testing.T) {
	s := newStack(t, successResponse(testutil.SampleTranscript))
	payload := []byte("\x00\x00\x00\x18ftypmp42 fake video")

	body, formType := testutil.MultipartFile(t, "file", "meeting.mp4", "video/mp4", payload)
	resp, view := s.postJSON(t, "/file", formType, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "file_selected", view.State)

	resp, view = s.postJSON(t, "/transcribe", "", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "transcribing", view.State)

	view = s.waitForState(t, "result")
	assert.Equal(t, testutil.SampleTranscript, view.Transcript)

	requests := s.gemini.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, testAPIKey, requests[0].APIKey)
	assert.Contains(t, requests[0].Path, "models/gemini-2.5-flash:generateContent")
	assert.Contains(t, string(requests[0].Body), base64.StdEncoding.EncodeToString(payload))

	page, err := s.client.Get(s.app.URL + "/")
	require.NoError(t, err)
	html, _ := io.ReadAll(page.Body)
	page.Body.Close()
	assert.Contains(t, string(html), "文字起こし結果")

	resp, view = s.postJSON(t, "/reset", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", view.State)
}

// TestEndToEndFailureRecovery checks that a rejected request surfaces only the
// category message and that the retry succeeds with the same file
func TestEndToEndFailureRecovery(t *testing.T) {
	s := newStack(t, successResponse("話者1: 再試行成功"))
	s.gemini.Enqueue(errorResponse(http.StatusBadRequest, "Request contains an invalid argument (10.1.2.3)", "INVALID_ARGUMENT"))

	body, formType := testutil.MultipartFile(t, "file", "voice.mp3", "audio/mpeg", []byte("id3 audio"))
	s.postJSON(t, "/file", formType, body)
	s.postJSON(t, "/transcribe", "", nil)

	view := s.waitForState(t, "file_selected")
	assert.Equal(t, "Gemini APIとの通信中にエラーが発生しました。", view.Error)
	assert.NotContains(t, view.Error, "10.1.2.3")
	require.NotNil(t, view.File)

	s.postJSON(t, "/transcribe", "", nil)
	view = s.waitForState(t, "result")
	assert.Equal(t, "話者1: 再試行成功", view.Transcript)
}

// TestEndToEndAPI exercises the synchronous API and its error mapping
func TestEndToEndAPI(t *testing.T) {
	s := newStack(t, successResponse(testutil.SampleTranscript))
	s.gemini.Enqueue(errorResponse(http.StatusForbidden, "API key not valid. Please pass a valid API key.", "PERMISSION_DENIED"))

	call := func() (*http.Response, map[string]interface{}) {
		body, formType := testutil.MultipartFile(t, "file", "clip.webm", "video/webm", []byte("webm"))
		resp, err := s.client.Post(s.app.URL+"/api/v1/transcriptions", formType, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		var decoded map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		return resp, decoded
	}

	resp, decoded := call()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "auth_error", decoded["code"])

	resp, decoded = call()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testutil.SampleTranscript, decoded["transcript"])

	metricsResp, err := s.client.Get(s.app.URL + "/metrics")
	require.NoError(t, err)
	text, _ := io.ReadAll(metricsResp.Body)
	metricsResp.Body.Close()
	assert.True(t, strings.Contains(string(text), `transcriber_requests_total{outcome="auth_error"} 1`))
	assert.True(t, strings.Contains(string(text), `transcriber_requests_total{outcome="success"} 1`))
}
