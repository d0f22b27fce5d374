package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tempo/internal/attendance/models"
	"tempo/internal/attendance/service"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
	"tempo/pkg/platform/audit"
	"tempo/pkg/platform/httputil"
	"tempo/pkg/requestcontext"
)

// Service defines the attendance operations the handler exposes.
type Service interface {
	CreateSession(ctx context.Context, cmd service.PlanSessionCommand) (*models.ClockSession, error)
	GetSession(ctx context.Context, sessionID id.SessionID) (*models.ClockSession, error)
	ApplyAction(ctx context.Context, sessionID id.SessionID, action models.Action) (*models.ClockSession, error)
}

// LedgerReader lists a session's clock ledger.
type LedgerReader interface {
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]audit.Entry, error)
}

// Handler wires attendance endpoints to the attendance service.
type Handler struct {
	service Service
	ledger  LedgerReader
	logger  *slog.Logger
}

// New constructs an attendance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// WithLedger exposes the clock ledger at GET /attendance/sessions/{id}/ledger.
func (h *Handler) WithLedger(ledger LedgerReader) *Handler {
	h.ledger = ledger
	return h
}

// Register mounts attendance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attendance/sessions", h.HandleCreateSession)
	r.Get("/attendance/sessions/{id}", h.HandleGetSession)
	r.Post("/attendance/sessions/{id}/{action}", h.HandleAction)
	if h.ledger != nil {
		r.Get("/attendance/sessions/{id}/ledger", h.HandleLedger)
	}
}

// HandleCreateSession handles POST /attendance/sessions.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.CreateSession(ctx, req.Command())
	if err != nil {
		h.logFailure(ctx, "failed to plan session", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromSession(session))
}

// HandleGetSession handles GET /attendance/sessions/{id}.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid session id"))
		return
	}

	session, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		h.logFailure(ctx, "failed to load session", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(session))
}

// HandleAction handles POST /attendance/sessions/{id}/{action}.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	sessionID, err := id.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid session id"))
		return
	}
	action, ok := models.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "action must be one of start, pause, resume, finish"))
		return
	}

	session, err := h.service.ApplyAction(ctx, sessionID, action)
	if err != nil {
		h.logFailure(ctx, "clock action failed", requestID, err,
			"session_id", sessionID.String(),
			"action", action.String(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "clock action handled",
		"request_id", requestID,
		"session_id", sessionID.String(),
		"action", action.String(),
		"state", session.State.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromSession(session))
}

// HandleLedger handles GET /attendance/sessions/{id}/ledger.
func (h *Handler) HandleLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid session id"))
		return
	}
	entries, err := h.ledger.ListBySession(ctx, sessionID)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ledger")
		h.logFailure(ctx, "failed to load ledger", requestcontext.RequestID(ctx), err, "session_id", sessionID.String())
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// logFailure logs rejections at info and unexpected failures at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error, attrs ...any) {
	args := append([]any{"request_id", requestID, "error", err}, attrs...)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.InfoContext(ctx, msg, args...)
}
