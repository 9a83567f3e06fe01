package repository

import (
	"context"
	"time"

	"furniture-rental-backend/internal/domain"
)

// Lookups return domain.ErrNotFound when no row matches.

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

type ContractRepository interface {
	GetActive(ctx context.Context, memberID, propertyID int32) (*domain.RentalContract, error)
}

type CartRepository interface {
	// FindOpen returns the single cart for the pair whose status is not ORDERED.
	FindOpen(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error)
	// FindOrCreateOpen must be safe against two concurrent first calls for the same pair.
	FindOrCreateOpen(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error)
	GetByID(ctx context.Context, cartID string) (*domain.Cart, error)
	// GetForUpdate loads the cart with its items and holds a row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, cartID string) (*domain.Cart, error)
	// AddItem accumulates quantity onto an existing line for the same product.
	AddItem(ctx context.Context, item *domain.CartItem) error
	GetItem(ctx context.Context, itemID string) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int32) error
	RemoveItem(ctx context.Context, itemID string) error
	// Close flips an open cart to ORDERED. Returns domain.ErrCartAlreadyOrdered
	// if the cart was already closed.
	Close(ctx context.Context, cartID string) error
	// Delete removes an open cart and its items. Ordered carts are never deleted.
	Delete(ctx context.Context, cartID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateItem(ctx context.Context, item *domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	CountByMember(ctx context.Context, memberID int32) (int32, error)
}

type OrderHistoryRepository interface {
	Create(ctx context.Context, h *domain.OrderHistory) error
	GetForUpdate(ctx context.Context, id string) (*domain.OrderHistory, error)
	// UpdateStatus moves a line from one status to another. Returns
	// domain.ErrStorageConflict if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.HistoryStatus, at time.Time) error
	ListByMember(ctx context.Context, memberID int32) ([]domain.OrderHistory, error)
}

type InventoryRepository interface {
	Get(ctx context.Context, productID string) (*domain.InventoryRecord, error)
	GetMany(ctx context.Context, productIDs []string) (map[string]domain.InventoryRecord, error)
	ListProductIDs(ctx context.Context) ([]string, error)
	// Reserve checks and applies the stock decrement as one atomic step and
	// appends the matching event. Returns a *domain.StockError when the
	// available quantity cannot cover the request.
	Reserve(ctx context.Context, ev *domain.InventoryEvent) error
	// Release is the inverse of Reserve; ev.Quantity is positive.
	Release(ctx context.Context, ev *domain.InventoryEvent) error
	ListEvents(ctx context.Context, productID string) ([]domain.InventoryEvent, error)
	// Snapshot reads the counters and the sum of event deltas from one
	// consistent view.
	Snapshot(ctx context.Context, productID string) (*domain.InventoryRecord, int64, error)
}

// Repositories bundles one view of every repository. Inside WithinTx all of
// them share the same transaction.
type Repositories struct {
	Products  ProductRepository
	Contracts ContractRepository
	Carts     CartRepository
	Orders    OrderRepository
	History   OrderHistoryRepository
	Inventory InventoryRepository
}

// Transactor runs fn as a single unit of work. If fn returns an error nothing
// it wrote is persisted.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// Store is what the services are built on: plain repositories for reads and
// a Transactor for workflows.
type Store interface {
	Transactor
	Repos() Repositories
}
