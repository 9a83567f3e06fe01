package service

import (
	"context"
	"fmt"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
)

type inventoryLedger struct {
	tx    repository.Transactor
	repo  repository.InventoryRepository
	bound repository.InventoryRepository
	now   Clock
}

// NewInventoryLedger returns the single write path for stock counters: every
// counter change is applied together with its ledger event.
func NewInventoryLedger(tx repository.Transactor, repo repository.InventoryRepository, now Clock) InventoryLedger {
	return &inventoryLedger{tx: tx, repo: repo, now: now}
}

func (l *inventoryLedger) WithRepository(repo repository.InventoryRepository) InventoryLedger {
	return &inventoryLedger{tx: l.tx, repo: repo, bound: repo, now: l.now}
}

func (l *inventoryLedger) Reserve(ctx context.Context, productID string, quantity int32, sourceType domain.InventorySourceType, sourceID string) (*domain.InventoryEvent, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	ev := &domain.InventoryEvent{
		ProductID:  productID,
		Quantity:   -quantity,
		EventType:  domain.InventoryEventReserve,
		SourceType: sourceType,
		SourceID:   sourceID,
		OccurredAt: l.now(),
	}
	if err := l.apply(ctx, func(inv repository.InventoryRepository) error { return inv.Reserve(ctx, ev) }); err != nil {
		return nil, err
	}
	return ev, nil
}

func (l *inventoryLedger) Release(ctx context.Context, productID string, quantity int32, sourceType domain.InventorySourceType, sourceID string) (*domain.InventoryEvent, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	ev := &domain.InventoryEvent{
		ProductID:  productID,
		Quantity:   quantity,
		EventType:  domain.InventoryEventRelease,
		SourceType: sourceType,
		SourceID:   sourceID,
		OccurredAt: l.now(),
	}
	if err := l.apply(ctx, func(inv repository.InventoryRepository) error { return inv.Release(ctx, ev) }); err != nil {
		return nil, err
	}
	return ev, nil
}

// apply writes through the bound repository, or opens a transaction so the
// counter update and the event insert commit together.
func (l *inventoryLedger) apply(ctx context.Context, fn func(inv repository.InventoryRepository) error) error {
	if l.bound != nil {
		return fn(l.bound)
	}
	return l.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		return fn(repos.Inventory)
	})
}

func (l *inventoryLedger) Stock(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	return l.repo.Get(ctx, productID)
}

func (l *inventoryLedger) Events(ctx context.Context, productID string) ([]domain.InventoryEvent, error) {
	return l.repo.ListEvents(ctx, productID)
}

// Reconcile checks that the rented counter equals the negated sum of ledger
// deltas, i.e. total - available == -sum(events).
func (l *inventoryLedger) Reconcile(ctx context.Context, productID string) (*domain.ReconciliationReport, error) {
	rec, sum, err := l.repo.Snapshot(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", productID, err)
	}
	return &domain.ReconciliationReport{
		ProductID:  productID,
		Available:  rec.AvailableQuantity,
		Rented:     rec.RentedQuantity,
		EventSum:   sum,
		Consistent: int64(rec.RentedQuantity) == -sum,
	}, nil
}

func (l *inventoryLedger) ReconcileAll(ctx context.Context) ([]domain.ReconciliationReport, error) {
	logger.EnterMethod("inventoryLedger.ReconcileAll")

	ids, err := l.repo.ListProductIDs(ctx)
	if err != nil {
		logger.ExitMethodWithError("inventoryLedger.ReconcileAll", err)
		return nil, err
	}

	reports := make([]domain.ReconciliationReport, 0, len(ids))
	for _, id := range ids {
		rep, err := l.Reconcile(ctx, id)
		if err != nil {
			logger.ExitMethodWithError("inventoryLedger.ReconcileAll", err, "productID", id)
			return nil, err
		}
		if !rep.Consistent {
			logger.Error("Inventory ledger diverged from counters",
				"productID", id, "available", rep.Available, "rented", rep.Rented, "eventSum", rep.EventSum)
		}
		reports = append(reports, *rep)
	}

	logger.ExitMethod("inventoryLedger.ReconcileAll", "products", len(reports))
	return reports, nil
}
