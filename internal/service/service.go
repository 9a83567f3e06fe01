package service

import (
	"context"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository"
)

// Every operation takes the member id explicitly; nothing is read from
// request-scoped state.

type CartService interface {
	FindOrCreateActiveCart(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error)
	GetCart(ctx context.Context, memberID, propertyID int32) (*domain.CartSummary, error)
	AddItem(ctx context.Context, memberID, propertyID int32, productID string, quantity, rentalDays int32) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, memberID int32, itemID string, quantity int32) error
	RemoveItem(ctx context.Context, memberID int32, itemID string) error
	CancelCart(ctx context.Context, memberID int32, cartID string) error
}

type ContractResolver interface {
	// ResolveActiveContract returns nil, nil when the pair has no active contract.
	ResolveActiveContract(ctx context.Context, memberID, propertyID int32) (*domain.RentalContract, error)
	BillableDays(contract *domain.RentalContract, asOf time.Time) int32
	RentalWindow(contract *domain.RentalContract, asOf time.Time) (start, end time.Time)
	// WithRepository returns a resolver reading through repo, typically one
	// bound to an open transaction.
	WithRepository(repo repository.ContractRepository) ContractResolver
}

type InventoryLedger interface {
	Reserve(ctx context.Context, productID string, quantity int32, sourceType domain.InventorySourceType, sourceID string) (*domain.InventoryEvent, error)
	Release(ctx context.Context, productID string, quantity int32, sourceType domain.InventorySourceType, sourceID string) (*domain.InventoryEvent, error)
	Stock(ctx context.Context, productID string) (*domain.InventoryRecord, error)
	Events(ctx context.Context, productID string) ([]domain.InventoryEvent, error)
	Reconcile(ctx context.Context, productID string) (*domain.ReconciliationReport, error)
	ReconcileAll(ctx context.Context) ([]domain.ReconciliationReport, error)
	// WithRepository returns a ledger that writes through repo without
	// opening its own transaction.
	WithRepository(repo repository.InventoryRepository) InventoryLedger
}

type OrderHistoryService interface {
	ListOrders(ctx context.Context, memberID int32) (*domain.OrderOverview, error)
	UpdateItemStatus(ctx context.Context, memberID int32, historyID string, status domain.HistoryStatus) (*domain.OrderHistory, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error)
}

// Clock supplies the current instant. Calendar days are derived from it in
// the configured location.
type Clock func() time.Time
