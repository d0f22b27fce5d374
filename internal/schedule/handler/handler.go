// Package handler exposes contract assignment. Assigning a contract changes
// which employee channel lifecycle events fan out to.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
	"tempo/pkg/platform/httputil"
	"tempo/pkg/requestcontext"
)

// ContractStore persists contract assignments.
type ContractStore interface {
	SaveContract(ctx context.Context, contract models.Contract) error
}

// Invalidator drops cached employee lookups for a contract.
type Invalidator interface {
	Invalidate(ctx context.Context, contractID id.ContractID) error
}

// Handler serves contract endpoints.
type Handler struct {
	contracts   ContractStore
	invalidator Invalidator
	logger      *slog.Logger
}

// New constructs a contract handler. invalidator may be nil when no cache is
// configured.
func New(contracts ContractStore, invalidator Invalidator, logger *slog.Logger) *Handler {
	return &Handler{contracts: contracts, invalidator: invalidator, logger: logger}
}

// Register mounts contract endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/attendance/contracts/{id}", h.HandleAssignContract)
}

// AssignContractRequest is the body of PUT /attendance/contracts/{id}. An
// empty employee_id unassigns the contract.
type AssignContractRequest struct {
	EmployeeID string `json:"employee_id"`

	employeeID *id.EmployeeID
}

func (r *AssignContractRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	raw := strings.TrimSpace(r.EmployeeID)
	if raw == "" {
		return nil
	}
	employeeID, err := id.ParseEmployeeID(raw)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "employee_id must be a UUID")
	}
	r.employeeID = &employeeID
	return nil
}

// HandleAssignContract handles PUT /attendance/contracts/{id}.
func (h *Handler) HandleAssignContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	contractID, err := id.ParseContractID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid contract id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[AssignContractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contract := models.Contract{ID: contractID, EmployeeID: req.employeeID}
	if err := h.contracts.SaveContract(ctx, contract); err != nil {
		h.logger.ErrorContext(ctx, "failed to save contract", "request_id", requestID, "contract_id", contractID.String(), "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contract"))
		return
	}
	if h.invalidator != nil {
		if err := h.invalidator.Invalidate(ctx, contractID); err != nil {
			// Stale entries expire with the cache TTL.
			h.logger.WarnContext(ctx, "failed to invalidate employee cache", "contract_id", contractID.String(), "error", err)
		}
	}

	h.logger.InfoContext(ctx, "contract assigned",
		"request_id", requestID,
		"contract_id", contractID.String(),
		"assigned", contract.EmployeeID != nil,
	)
	httputil.WriteJSON(w, http.StatusOK, contract)
}
