package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"gemini-transcriber/internal/app/model"
)

// MockTranscriber is a testify mock of api.Transcriber.
//
// Set Gate to hold every call until the channel is closed, which lets tests
// observe the transcribing state.
type MockTranscriber struct {
	mock.Mock
	Gate chan struct{}

	mu    sync.Mutex
	files []*model.UploadedFile
}

// NewMockTranscriber creates a mock bound to t
func NewMockTranscriber(t mock.TestingT) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

// Transcribe implements api.Transcriber
func (m *MockTranscriber) Transcribe(ctx context.Context, file *model.UploadedFile) (string, error) {
	m.mu.Lock()
	m.files = append(m.files, file)
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

// Files returns every file the mock was called with, in order
func (m *MockTranscriber) Files() []*model.UploadedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.UploadedFile, len(m.files))
	copy(out, m.files)
	return out
}

// CallCount returns how many times Transcribe was invoked
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
