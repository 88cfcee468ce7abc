package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"gemini-transcriber/internal/app/api"
)

// Store keeps live sessions in memory, keyed by a random ID
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	transcriber api.Transcriber
	now         func() time.Time
	logger      *zap.Logger
}

// NewStore creates an empty store whose sessions share one transcriber
func NewStore(transcriber api.Transcriber, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions:    make(map[string]*Session),
		transcriber: transcriber,
		now:         time.Now,
		logger:      logger.Named("session"),
	}
}

// WithClock replaces the time source for sessions created afterwards
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Create starts a new idle session
func (s *Store) Create() *Session {
	sess := New(uuid.New().String(), s.transcriber, s.now, s.logger)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a session by ID
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle so their payloads can be
// collected. Sessions with a transcription in flight are kept.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.sessions)
	s.sessions = lo.OmitBy(s.sessions, func(_ string, sess *Session) bool {
		lastActive, busy := sess.idleSince()
		return !busy && lastActive.Before(cutoff)
	})
	removed := before - len(s.sessions)
	if removed > 0 {
		s.logger.Debug("swept idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(s.sessions)))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *Store) RunSweeper(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(maxIdle)
		}
	}
}
