// Package resolver answers "which employee holds this contract" for the
// lifecycle emitter. A missing contract or an unassigned one is a normal
// answer (false), not an error; lookup failures are logged and treated the
// same way so a broken directory only narrows the audience.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	attendancemodels "tempo/internal/attendance/models"
	"tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
)

// ContractFinder is the read side of the contract directory.
type ContractFinder interface {
	FindContract(ctx context.Context, contractID id.ContractID) (models.Contract, error)
}

// Directory resolves employees straight from the contract store.
type Directory struct {
	contracts ContractFinder
	logger    *slog.Logger
}

// NewDirectory constructs a directory-backed resolver.
func NewDirectory(contracts ContractFinder, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{contracts: contracts, logger: logger}
}

// ResolveEmployee implements events.EmployeeResolver.
func (d *Directory) ResolveEmployee(ctx context.Context, ref attendancemodels.ScheduleRef) (id.EmployeeID, bool) {
	if ref.ContractID.IsNil() {
		return id.EmployeeID{}, false
	}
	contract, err := d.contracts.FindContract(ctx, ref.ContractID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			d.logger.WarnContext(ctx, "contract lookup failed",
				"contract_id", ref.ContractID.String(),
				"error", err,
			)
		}
		return id.EmployeeID{}, false
	}
	if contract.EmployeeID == nil || contract.EmployeeID.IsNil() {
		return id.EmployeeID{}, false
	}
	return *contract.EmployeeID, true
}
