package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
	"gemini-transcriber/internal/app/testutil"
)

func TestInstrument_RecordsSuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTranscriptionMetrics(reg)
	next := testutil.NewMockTranscriber(t)
	next.On("Transcribe", mock.Anything, mock.Anything).Return("話者1: こんにちは", nil)

	text, err := m.Instrument(next).Transcribe(context.Background(), testutil.SampleVideo())

	require.NoError(t, err)
	assert.Equal(t, "話者1: こんにちは", text)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("success")))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(m.inFlight))
	next.AssertExpectations(t)
}

func TestInstrument_RecordsFailureCategory(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTranscriptionMetrics(reg)
	next := testutil.NewMockTranscriber(t)
	next.On("Transcribe", mock.Anything, mock.Anything).Return("", apperrors.ErrAuth)

	_, err := m.Instrument(next).Transcribe(context.Background(), model.NewUploadedFile("a.mp3", "audio/mpeg", nil))

	assert.ErrorIs(t, err, apperrors.ErrAuth)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("auth_error")))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(m.requests.WithLabelValues("success")))
}

func TestRecordFailure_UncategorizedIsUnknown(t *testing.T) {
	m := NewTranscriptionMetrics(prometheus.NewRegistry())

	m.RecordFailure("", time.Second)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("unknown")))
}

func TestNewTranscriptionMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTranscriptionMetrics(reg)
	m.RecordSuccess(2*time.Second, 1024)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "transcriber_requests_total")
	assert.Contains(t, names, "transcriber_request_duration_seconds")
	assert.Contains(t, names, "transcriber_upload_bytes")
	assert.Contains(t, names, "transcriber_in_flight")
}
