//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// MockGeminiServer fakes the Gemini generateContent endpoint
type MockGeminiServer struct {
	server        *httptest.Server
	mutex         sync.RWMutex
	requestLog    []MockRequest
	responseQueue []MockResponse
	fallback      MockResponse
}

type MockRequest struct {
	Path      string
	APIKey    string
	Body      []byte
	Timestamp time.Time
}

type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// NewMockGeminiServer answers every request with fallback unless a queued
// response is waiting
func NewMockGeminiServer(t *testing.T, fallback MockResponse) *MockGeminiServer {
	t.Helper()
	m := &MockGeminiServer{fallback: fallback}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.server.Close)
	return m
}

func (m *MockGeminiServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mutex.Lock()
	m.requestLog = append(m.requestLog, MockRequest{
		Path:      r.URL.Path,
		APIKey:    r.Header.Get("x-goog-api-key"),
		Body:      body,
		Timestamp: time.Now(),
	})
	resp := m.fallback
	if len(m.responseQueue) > 0 {
		resp = m.responseQueue[0]
		m.responseQueue = m.responseQueue[1:]
	}
	m.mutex.Unlock()

	if !strings.HasSuffix(r.URL.Path, ":generateContent") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}

// Enqueue adds a one-shot response
func (m *MockGeminiServer) Enqueue(resp MockResponse) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.responseQueue = append(m.responseQueue, resp)
}

// Requests returns a copy of the request log
func (m *MockGeminiServer) Requests() []MockRequest {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]MockRequest, len(m.requestLog))
	copy(out, m.requestLog)
	return out
}

// URL is the base URL to hand to the Gemini client
func (m *MockGeminiServer) URL() string {
	return m.server.URL + "/"
}

func successResponse(text string) MockResponse {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return MockResponse{StatusCode: http.StatusOK, Body: string(body)}
}

func errorResponse(code int, message, status string) MockResponse {
	body, _ := json.Marshal(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
	return MockResponse{StatusCode: code, Body: string(body)}
}
