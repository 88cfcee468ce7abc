package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gemini-transcriber/internal/app/api"
	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
)

// State is the position of a session in the upload flow
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateTranscribing State = "transcribing"
	StateResult       State = "result"
)

// CopyAckWindow is how long the "copied" acknowledgment stays visible
const CopyAckWindow = 2 * time.Second

// NoFileMessage is shown when transcription is requested without a file
const NoFileMessage = "文字起こしするビデオまたは音声ファイルを選択してください。"

// ErrInvalidTransition is returned when an action is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid session transition")

// ErrNoFile is returned when an action needs a selected file and there is none.
var ErrNoFile = errors.New("no file selected")

// View is an immutable snapshot used to render exactly one screen
type View struct {
	ID         string
	State      State
	File       *FileView
	Transcript string
	Error      string
	Copied     bool
}

// FileView describes the selected file without exposing its bytes
type FileView struct {
	Name      string
	Size      int64
	HumanSize string
	MIMEType  string
	IsAudio   bool
}

// Session tracks one user's flow from file selection to result.
// At most one transcription runs per session.
type Session struct {
	mu          sync.Mutex
	id          string
	state       State
	file        *model.UploadedFile
	transcript  string
	errMsg      string
	copiedUntil time.Time
	lastActive  time.Time

	transcriber api.Transcriber
	now         func() time.Time
	logger      *zap.Logger
}

// New creates an idle session
func New(id string, transcriber api.Transcriber, now func() time.Time, logger *zap.Logger) *Session {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:          id,
		state:       StateIdle,
		transcriber: transcriber,
		now:         now,
		lastActive:  now(),
		logger:      logger.With(zap.String("session", id)),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// SelectFile validates and stores a new selection. An oversized file leaves
// the state and any previous selection untouched and sets the error message.
func (s *Session) SelectFile(file *model.UploadedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state != StateIdle && s.state != StateFileSelected {
		return fmt.Errorf("%w: select file in %s", ErrInvalidTransition, s.state)
	}
	if file == nil {
		return ErrNoFile
	}
	if file.TooLarge() {
		err := apperrors.Wrapf(apperrors.CategoryFileTooLarge, "%s is %d bytes", file.Name, file.Size)
		s.errMsg = apperrors.UserMessage(err)
		s.logger.Info("rejected oversized file", zap.String("file", file.Name), zap.Int64("size", file.Size))
		return err
	}

	s.file = file
	s.transcript = ""
	s.errMsg = ""
	s.state = StateFileSelected
	return nil
}

// Clear drops the selected file and returns to idle
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state != StateIdle && s.state != StateFileSelected {
		return fmt.Errorf("%w: clear in %s", ErrInvalidTransition, s.state)
	}
	s.file = nil
	s.errMsg = ""
	s.state = StateIdle
	return nil
}

// StartTranscription moves to transcribing and runs the transcriber in the
// background. The returned channel is closed once the call resolves. ctx must
// outlive the HTTP request that triggered it.
func (s *Session) StartTranscription(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.state {
	case StateFileSelected:
	case StateIdle:
		s.errMsg = NoFileMessage
		return nil, ErrNoFile
	default:
		return nil, fmt.Errorf("%w: start transcription in %s", ErrInvalidTransition, s.state)
	}

	file := s.file
	s.state = StateTranscribing
	s.errMsg = ""
	s.transcript = ""

	done := make(chan struct{})
	go s.run(ctx, file, done)
	return done, nil
}

func (s *Session) run(ctx context.Context, file *model.UploadedFile, done chan<- struct{}) {
	defer close(done)

	s.logger.Info("transcription started", zap.String("file", file.Name), zap.Int64("size", file.Size))
	text, err := s.transcriber.Transcribe(ctx, file)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err != nil {
		// The file stays selected so the user can retry or pick another one.
		s.state = StateFileSelected
		s.errMsg = apperrors.UserMessage(err)
		s.logger.Warn("transcription failed",
			zap.String("category", string(apperrors.CategoryOf(err))),
			zap.Error(err),
		)
		return
	}

	s.state = StateResult
	s.transcript = text
	s.file = nil
	s.logger.Info("transcription finished", zap.Int("chars", len(text)))
}

// Copy returns the transcript for the clipboard and opens the acknowledgment
// window. The state does not change.
func (s *Session) Copy() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state != StateResult {
		return "", fmt.Errorf("%w: copy in %s", ErrInvalidTransition, s.state)
	}
	s.copiedUntil = s.now().Add(CopyAckWindow)
	return s.transcript, nil
}

// StartOver clears file, transcript and error and returns to idle
func (s *Session) StartOver() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateTranscribing {
		return fmt.Errorf("%w: start over while transcribing", ErrInvalidTransition)
	}
	s.state = StateIdle
	s.file = nil
	s.transcript = ""
	s.errMsg = ""
	s.copiedUntil = time.Time{}
	return nil
}

// Snapshot returns the current view
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:         s.id,
		State:      s.state,
		Transcript: s.transcript,
		Error:      s.errMsg,
		Copied:     s.state == StateResult && s.now().Before(s.copiedUntil),
	}
	if s.file != nil {
		v.File = &FileView{
			Name:      s.file.Name,
			Size:      s.file.Size,
			HumanSize: s.file.HumanSize(),
			MIMEType:  s.file.MIMEType,
			IsAudio:   s.file.IsAudio(),
		}
	}
	return v
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// idleSince reports when the session was last used, and whether it is busy
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.state == StateTranscribing
}

func (s *Session) touch() {
	s.lastActive = s.now()
}
