package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tempo/internal/reconcile"
	"tempo/internal/reconcile/report"
	dErrors "tempo/pkg/domain-errors"
	"tempo/pkg/platform/httputil"
	"tempo/pkg/requestcontext"
)

// Service defines the report operations the handler exposes.
type Service interface {
	WeeklyReport(ctx context.Context, weekStart time.Time) (*report.Weekly, error)
}

// Handler serves reconciliation reports.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/attendance/reports/weekly", h.HandleWeeklyReport)
}

// HandleWeeklyReport handles GET /attendance/reports/weekly?week=YYYY-MM-DD.
// Without a week parameter the current week of the request time is used.
func (h *Handler) HandleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	week := reconcile.WeekStart(requestcontext.Now(ctx))
	if raw := r.URL.Query().Get("week"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "week must be YYYY-MM-DD"))
			return
		}
		week = parsed
	}

	weekly, err := h.service.WeeklyReport(ctx, week)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to build weekly report", "request_id", requestID, "error", err)
		} else {
			h.logger.InfoContext(ctx, "weekly report rejected", "request_id", requestID, "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, weekly)
}
