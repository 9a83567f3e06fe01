package service

import (
	"context"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
)

// ProjectOrderHistory builds the read-only history row for one order line.
// Every displayed value is copied so the row stays valid after the product is
// renamed, repriced or deleted.
func ProjectOrderHistory(order *domain.Order, item *domain.OrderItem, product *domain.Product, start, end time.Time) domain.OrderHistory {
	return domain.OrderHistory{
		OrderID:             order.ID,
		OrderItemID:         item.ID,
		MemberID:            order.MemberID,
		PropertyID:          order.PropertyID,
		ProductID:           item.ProductID,
		ProductNameSnapshot: product.Name,
		DailyRateSnapshot:   item.DailyRateSnapshot,
		Quantity:            item.Quantity,
		RentalStart:         start,
		RentalEnd:           end,
		SubtotalCents:       item.SubtotalCents,
		Status:              domain.HistoryStatusConfirmed,
	}
}

type orderHistoryService struct {
	store  repository.Store
	ledger InventoryLedger
	now    Clock
}

func NewOrderHistoryService(store repository.Store, ledger InventoryLedger, now Clock) OrderHistoryService {
	return &orderHistoryService{
		store:  store,
		ledger: ledger,
		now:    now,
	}
}

// ListOrders splits the member's history into lines still out on rent and the
// full list of every line ever ordered.
func (s *orderHistoryService) ListOrders(ctx context.Context, memberID int32) (*domain.OrderOverview, error) {
	logger.EnterMethod("orderHistoryService.ListOrders", "memberID", memberID)

	rows, err := s.store.Repos().History.ListByMember(ctx, memberID)
	if err != nil {
		logger.ExitMethodWithError("orderHistoryService.ListOrders", err, "memberID", memberID)
		return nil, err
	}

	overview := &domain.OrderOverview{
		Ongoing:   []domain.OrderHistory{},
		Completed: rows,
	}
	if overview.Completed == nil {
		overview.Completed = []domain.OrderHistory{}
	}
	for _, h := range rows {
		if h.Status != domain.HistoryStatusReturned {
			overview.Ongoing = append(overview.Ongoing, h)
		}
	}

	logger.ExitMethod("orderHistoryService.ListOrders", "ongoing", len(overview.Ongoing), "total", len(rows))
	return overview, nil
}

// UpdateItemStatus moves a history line through its after-checkout lifecycle.
// Returning an item gives its units back to stock in the same transaction.
func (s *orderHistoryService) UpdateItemStatus(ctx context.Context, memberID int32, historyID string, status domain.HistoryStatus) (*domain.OrderHistory, error) {
	logger.EnterMethod("orderHistoryService.UpdateItemStatus", "memberID", memberID, "historyID", historyID, "status", status)

	var updated *domain.OrderHistory
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		h, err := repos.History.GetForUpdate(ctx, historyID)
		if err != nil {
			return err
		}
		if h.MemberID != memberID {
			return domain.ErrNotFound
		}
		if !h.Status.CanTransitionTo(status) {
			return domain.ErrInvalidStatusTransition
		}

		at := s.now()
		if err := repos.History.UpdateStatus(ctx, historyID, h.Status, status, at); err != nil {
			return err
		}
		if status == domain.HistoryStatusReturned {
			ledger := s.ledger.WithRepository(repos.Inventory)
			if _, err := ledger.Release(ctx, h.ProductID, h.Quantity, domain.InventorySourceOrderHistory, historyID); err != nil {
				return err
			}
		}

		logger.StateTransition(ctx, "order_history", string(h.Status), string(status), "historyID", historyID)
		h.Status = status
		h.UpdatedAt = at
		updated = h
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("orderHistoryService.UpdateItemStatus", err, "historyID", historyID)
		return nil, err
	}

	logger.ExitMethod("orderHistoryService.UpdateItemStatus", "historyID", historyID, "status", status)
	return updated, nil
}
