package jobs

import (
	"context"

	"furniture-rental-backend/internal/logger"
)

// ReconcileInventory compares every product's counters with its event ledger
// and reports rows where rented != -sum(event deltas).
func (jr *JobRunner) ReconcileInventory() {
	jr.runWithRecovery("ReconcileInventory", func() {
		diverged, err := jr.reconcileInventory(context.Background())
		logger.JobResult("ReconcileInventory", err, "diverged", diverged)
	})
}

func (jr *JobRunner) reconcileInventory(ctx context.Context) (int, error) {
	reports, err := jr.services.Inventory.ReconcileAll(ctx)
	if err != nil {
		return 0, err
	}

	diverged := 0
	for _, rep := range reports {
		if !rep.Consistent {
			diverged++
		}
	}
	logger.Info("Reconciled inventory", "products", len(reports), "diverged", diverged)
	return diverged, nil
}
