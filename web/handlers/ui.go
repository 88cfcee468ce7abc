package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "gemini-transcriber/internal/api/errors"
	"gemini-transcriber/internal/api/middleware"
	"gemini-transcriber/internal/api/v1/dto"
	"gemini-transcriber/internal/app/common"
	apperrors "gemini-transcriber/internal/app/errors"
	"gemini-transcriber/internal/app/model"
	"gemini-transcriber/internal/app/session"
)

// SessionCookie names the cookie that carries the session ID
const SessionCookie = "transcriber_session"

// UIHandler serves the browser flow: upload, loading and result views
type UIHandler struct {
	store   *session.Store
	baseCtx context.Context
	model   string
	logger  *zap.Logger
}

// NewUIHandler creates the UI handler. baseCtx bounds background
// transcriptions and is cancelled only when the server shuts down.
func NewUIHandler(store *session.Store, baseCtx context.Context, model string, logger *zap.Logger) *UIHandler {
	return &UIHandler{
		store:   store,
		baseCtx: baseCtx,
		model:   model,
		logger:  common.OrNop(logger),
	}
}

type pageData struct {
	View         session.View
	Transcribing bool
	Result       bool
	MaxFileSize  int64
	Model        string
}

// Index handles GET / and renders exactly one view for the session
func (h *UIHandler) Index(c *gin.Context) {
	sess := h.sessionFor(c)
	view := sess.Snapshot()

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", pageData{
		View:         view,
		Transcribing: view.State == session.StateTranscribing,
		Result:       view.State == session.StateResult,
		MaxFileSize:  model.MaxFileSize,
		Model:        h.model,
	})
}

// SelectFile handles POST /file
func (h *UIHandler) SelectFile(c *gin.Context) {
	sess := h.sessionFor(c)

	var req dto.UploadRequest
	if err := middleware.BindUpload(c, &req); err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) && apiErr.Kind == apierrors.KindPayloadTooLarge {
			// The body limit cut the upload short; record the rejection on the session.
			h.reply(c, sess, sess.SelectFile(dto.OversizedFile(c.Request.ContentLength)), http.StatusOK)
			return
		}
		h.reply(c, sess, err, http.StatusOK)
		return
	}

	file, err := req.ToUploadedFile()
	if err != nil {
		h.logger.Warn("failed to read upload", zap.String("session", sess.ID()), zap.Error(err))
		h.reply(c, sess, apperrors.Wrap(err, apperrors.CategoryEncodingFailed), http.StatusOK)
		return
	}

	h.reply(c, sess, sess.SelectFile(file), http.StatusOK)
}

// ClearFile handles POST /file/clear
func (h *UIHandler) ClearFile(c *gin.Context) {
	sess := h.sessionFor(c)
	h.reply(c, sess, sess.Clear(), http.StatusOK)
}

// Transcribe handles POST /transcribe. It returns as soon as the
// transcription has started; the browser polls GET /session.
func (h *UIHandler) Transcribe(c *gin.Context) {
	sess := h.sessionFor(c)
	_, err := sess.StartTranscription(h.baseCtx)
	h.reply(c, sess, err, http.StatusAccepted)
}

// Copy handles POST /copy. The browser writes the returned transcript to the
// clipboard; the session shows the acknowledgment for a short window.
func (h *UIHandler) Copy(c *gin.Context) {
	sess := h.sessionFor(c)

	transcript, err := sess.Copy()
	if err != nil || !wantsJSON(c) {
		h.reply(c, sess, err, http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, dto.CopyResponse{Transcript: transcript, Copied: true})
}

// Reset handles POST /reset
func (h *UIHandler) Reset(c *gin.Context) {
	sess := h.sessionFor(c)
	h.reply(c, sess, sess.StartOver(), http.StatusOK)
}

// Session handles GET /session
func (h *UIHandler) Session(c *gin.Context) {
	sess := h.sessionFor(c)
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.NewSessionResponse(sess.Snapshot()))
}

// sessionFor returns the caller's session, creating one when the cookie is
// missing or names a session that has been swept
func (h *UIHandler) sessionFor(c *gin.Context) *session.Session {
	if id, err := c.Cookie(SessionCookie); err == nil {
		if sess, ok := h.store.Get(id); ok {
			return sess
		}
	}

	sess := h.store.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sess.ID(), 0, "/", "", false, true)
	return sess
}

// reply answers a UI action. Browsers without script get a redirect back to
// the page, which renders the new state; script callers get the snapshot.
func (h *UIHandler) reply(c *gin.Context, sess *session.Session, err error, okStatus int) {
	if err != nil {
		h.logger.Debug("UI action rejected",
			zap.String("session", sess.ID()),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	status := okStatus
	if err != nil {
		status = statusFor(err)
	}
	c.JSON(status, dto.NewSessionResponse(sess.Snapshot()))
}

func statusFor(err error) int {
	var apiErr *apierrors.APIError
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoFile):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return apiErr.HTTPStatus()
	case apperrors.CategoryOf(err) != "":
		return apierrors.FromTranscription(err).HTTPStatus()
	default:
		return http.StatusInternalServerError
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
