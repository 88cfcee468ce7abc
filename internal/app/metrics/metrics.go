package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gemini-transcriber/internal/app/api"
	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
)

const namespace = "transcriber"

// TranscriptionMetrics records outcomes and latency of transcription calls
type TranscriptionMetrics struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
	bytes    prometheus.Histogram
	inFlight prometheus.Gauge
}

// NewTranscriptionMetrics creates the collectors and registers them with reg
func NewTranscriptionMetrics(reg prometheus.Registerer) *TranscriptionMetrics {
	m := &TranscriptionMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Transcription calls by outcome (success or error category).",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Wall time of a transcription call.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		bytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_bytes",
			Help:      "Size of files submitted for transcription.",
			Buckets:   prometheus.ExponentialBuckets(1<<20, 2, 8),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "in_flight",
			Help:      "Transcription calls currently waiting on the remote model.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.bytes, m.inFlight)
	return m
}

// RecordSuccess records a completed transcription
func (m *TranscriptionMetrics) RecordSuccess(latency time.Duration, size int64) {
	m.requests.WithLabelValues("success").Inc()
	m.latency.Observe(latency.Seconds())
	m.bytes.Observe(float64(size))
}

// RecordFailure records a failed transcription under its category
func (m *TranscriptionMetrics) RecordFailure(category apperrors.Category, latency time.Duration) {
	if category == "" {
		category = "unknown"
	}
	m.requests.WithLabelValues(string(category)).Inc()
	m.latency.Observe(latency.Seconds())
}

// Instrument wraps a transcriber so every call is recorded
func (m *TranscriptionMetrics) Instrument(next api.Transcriber) api.Transcriber {
	return &instrumented{next: next, metrics: m}
}

type instrumented struct {
	next    api.Transcriber
	metrics *TranscriptionMetrics
}

func (i *instrumented) Transcribe(ctx context.Context, file *model.UploadedFile) (string, error) {
	i.metrics.inFlight.Inc()
	defer i.metrics.inFlight.Dec()

	start := time.Now()
	text, err := i.next.Transcribe(ctx, file)
	if err != nil {
		i.metrics.RecordFailure(apperrors.CategoryOf(err), time.Since(start))
		return "", err
	}

	var size int64
	if file != nil {
		size = file.Size
	}
	i.metrics.RecordSuccess(time.Since(start), size)
	return text, nil
}
