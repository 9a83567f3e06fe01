package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"furniture-rental-backend/internal/domain"

	"github.com/google/uuid"
)

type productRepository struct {
	with access
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var out *domain.Product
	err := r.with(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(ids))
	err := r.with(func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = p
			}
		}
		return nil
	})
	return out, err
}

type contractRepository struct {
	with access
}

func (r *contractRepository) GetActive(ctx context.Context, memberID, propertyID int32) (*domain.RentalContract, error) {
	var out *domain.RentalContract
	err := r.with(func(st *state) error {
		for _, c := range st.contracts {
			if c.MemberID == memberID && c.PropertyID == propertyID && c.Status == domain.ContractStatusActive {
				c := c
				out = &c
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

type cartRepository struct {
	with access
	now  func() time.Time
}

func findOpen(st *state, memberID, propertyID int32) *domain.Cart {
	for _, c := range st.carts {
		if c.MemberID == memberID && c.PropertyID == propertyID && c.IsOpen() {
			return c
		}
	}
	return nil
}

func (r *cartRepository) FindOpen(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error) {
	var out *domain.Cart
	err := r.with(func(st *state) error {
		c := findOpen(st, memberID, propertyID)
		if c == nil {
			return domain.ErrNotFound
		}
		out = copyCart(c)
		return nil
	})
	return out, err
}

func (r *cartRepository) FindOrCreateOpen(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error) {
	var out *domain.Cart
	err := r.with(func(st *state) error {
		c := findOpen(st, memberID, propertyID)
		if c == nil {
			now := r.now()
			c = &domain.Cart{
				ID:         uuid.NewString(),
				MemberID:   memberID,
				PropertyID: propertyID,
				Status:     domain.CartStatusInCart,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			st.carts[c.ID] = c
		}
		out = copyCart(c)
		return nil
	})
	return out, err
}

func (r *cartRepository) GetByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	var out *domain.Cart
	err := r.with(func(st *state) error {
		c, ok := st.carts[cartID]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyCart(c)
		return nil
	})
	return out, err
}

// GetForUpdate needs no extra locking: transactions already hold the store lock.
func (r *cartRepository) GetForUpdate(ctx context.Context, cartID string) (*domain.Cart, error) {
	return r.GetByID(ctx, cartID)
}

func (r *cartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	return r.with(func(st *state) error {
		c, ok := st.carts[item.CartID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range c.Items {
			if c.Items[i].ProductID == item.ProductID {
				c.Items[i].Quantity += item.Quantity
				*item = c.Items[i]
				c.UpdatedAt = r.now()
				return nil
			}
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.CreatedAt = r.now()
		c.Items = append(c.Items, *item)
		c.UpdatedAt = item.CreatedAt
		return nil
	})
}

func locateItem(st *state, itemID string) (*domain.Cart, int) {
	for _, c := range st.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				return c, i
			}
		}
	}
	return nil, -1
}

func (r *cartRepository) GetItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	var out *domain.CartItem
	err := r.with(func(st *state) error {
		c, i := locateItem(st, itemID)
		if c == nil {
			return domain.ErrNotFound
		}
		it := c.Items[i]
		out = &it
		return nil
	})
	return out, err
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int32) error {
	return r.with(func(st *state) error {
		c, i := locateItem(st, itemID)
		if c == nil {
			return domain.ErrNotFound
		}
		c.Items[i].Quantity = quantity
		c.UpdatedAt = r.now()
		return nil
	})
}

func (r *cartRepository) RemoveItem(ctx context.Context, itemID string) error {
	return r.with(func(st *state) error {
		c, i := locateItem(st, itemID)
		if c == nil {
			return domain.ErrNotFound
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.UpdatedAt = r.now()
		return nil
	})
}

func (r *cartRepository) Close(ctx context.Context, cartID string) error {
	return r.with(func(st *state) error {
		c, ok := st.carts[cartID]
		if !ok || !c.IsOpen() {
			return domain.ErrCartAlreadyOrdered
		}
		c.Status = domain.CartStatusOrdered
		c.UpdatedAt = r.now()
		return nil
	})
}

func (r *cartRepository) Delete(ctx context.Context, cartID string) error {
	return r.with(func(st *state) error {
		c, ok := st.carts[cartID]
		if !ok || !c.IsOpen() {
			return domain.ErrCartAlreadyOrdered
		}
		delete(st.carts, cartID)
		return nil
	})
}

type orderRepository struct {
	with access
	now  func() time.Time
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.with(func(st *state) error {
		st.nextOrderID++
		o.ID = st.nextOrderID
		if o.CreatedAt.IsZero() {
			o.CreatedAt = r.now()
		}
		stored := *o
		stored.Items = nil
		st.orders[o.ID] = &stored
		return nil
	})
}

func (r *orderRepository) CreateItem(ctx context.Context, it *domain.OrderItem) error {
	return r.with(func(st *state) error {
		o, ok := st.orders[it.OrderID]
		if !ok {
			return fmt.Errorf("order %d: %w", it.OrderID, domain.ErrNotFound)
		}
		st.nextItemID++
		it.ID = st.nextItemID
		if it.CreatedAt.IsZero() {
			it.CreatedAt = r.now()
		}
		o.Items = append(o.Items, *it)
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var out *domain.Order
	err := r.with(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		out = &cp
		return nil
	})
	return out, err
}

func (r *orderRepository) CountByMember(ctx context.Context, memberID int32) (int32, error) {
	var n int32
	err := r.with(func(st *state) error {
		for _, o := range st.orders {
			if o.MemberID == memberID {
				n++
			}
		}
		return nil
	})
	return n, err
}

type historyRepository struct {
	with access
	now  func() time.Time
}

func (r *historyRepository) Create(ctx context.Context, h *domain.OrderHistory) error {
	return r.with(func(st *state) error {
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = r.now()
		}
		h.UpdatedAt = h.CreatedAt
		st.history[h.ID] = *h
		return nil
	})
}

func (r *historyRepository) GetForUpdate(ctx context.Context, id string) (*domain.OrderHistory, error) {
	var out *domain.OrderHistory
	err := r.with(func(st *state) error {
		h, ok := st.history[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &h
		return nil
	})
	return out, err
}

func (r *historyRepository) UpdateStatus(ctx context.Context, id string, from, to domain.HistoryStatus, at time.Time) error {
	return r.with(func(st *state) error {
		h, ok := st.history[id]
		if !ok {
			return domain.ErrNotFound
		}
		if h.Status != from {
			return domain.ErrStorageConflict
		}
		h.Status = to
		h.UpdatedAt = at
		st.history[id] = h
		return nil
	})
}

func (r *historyRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.OrderHistory, error) {
	var out []domain.OrderHistory
	err := r.with(func(st *state) error {
		for _, h := range st.history {
			if h.MemberID == memberID {
				out = append(out, h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

type inventoryRepository struct {
	with access
	now  func() time.Time
}

func (r *inventoryRepository) Get(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	var out *domain.InventoryRecord
	err := r.with(func(st *state) error {
		rec, ok := st.inventory[productID]
		if !ok {
			return domain.ErrNotFound
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *inventoryRepository) GetMany(ctx context.Context, productIDs []string) (map[string]domain.InventoryRecord, error) {
	out := make(map[string]domain.InventoryRecord, len(productIDs))
	err := r.with(func(st *state) error {
		for _, id := range productIDs {
			if rec, ok := st.inventory[id]; ok {
				out[id] = rec
			}
		}
		return nil
	})
	return out, err
}

func (r *inventoryRepository) ListProductIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.with(func(st *state) error {
		for id := range st.inventory {
			ids = append(ids, id)
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}

func (r *inventoryRepository) Reserve(ctx context.Context, ev *domain.InventoryEvent) error {
	if ev.Quantity >= 0 {
		return fmt.Errorf("reserve: %w", domain.ErrInvalidQuantity)
	}
	return r.move(ev, func(rec *domain.InventoryRecord, qty int32) (int32, bool) {
		if rec.AvailableQuantity < qty {
			return rec.AvailableQuantity, false
		}
		rec.AvailableQuantity -= qty
		rec.RentedQuantity += qty
		return rec.AvailableQuantity, true
	})
}

func (r *inventoryRepository) Release(ctx context.Context, ev *domain.InventoryEvent) error {
	if ev.Quantity <= 0 {
		return fmt.Errorf("release: %w", domain.ErrInvalidQuantity)
	}
	return r.move(ev, func(rec *domain.InventoryRecord, qty int32) (int32, bool) {
		if rec.RentedQuantity < qty {
			return rec.RentedQuantity, false
		}
		rec.AvailableQuantity += qty
		rec.RentedQuantity -= qty
		return rec.AvailableQuantity, true
	})
}

// move applies the counter change and appends the event in one step.
func (r *inventoryRepository) move(ev *domain.InventoryEvent, apply func(rec *domain.InventoryRecord, qty int32) (int32, bool)) error {
	qty := ev.Quantity
	if qty < 0 {
		qty = -qty
	}
	return r.with(func(st *state) error {
		rec, ok := st.inventory[ev.ProductID]
		if !ok {
			return &domain.ProductError{ProductID: ev.ProductID}
		}
		have, ok := apply(&rec, qty)
		if !ok {
			return &domain.StockError{ProductID: ev.ProductID, Requested: qty, Available: have}
		}
		now := r.now()
		rec.UpdatedAt = now
		st.inventory[ev.ProductID] = rec

		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if ev.RecordedAt.IsZero() {
			ev.RecordedAt = now
		}
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = ev.RecordedAt
		}
		st.events = append(st.events, *ev)
		return nil
	})
}

func (r *inventoryRepository) ListEvents(ctx context.Context, productID string) ([]domain.InventoryEvent, error) {
	var out []domain.InventoryEvent
	err := r.with(func(st *state) error {
		for _, ev := range st.events {
			if ev.ProductID == productID {
				out = append(out, ev)
			}
		}
		return nil
	})
	return out, err
}

func (r *inventoryRepository) Snapshot(ctx context.Context, productID string) (*domain.InventoryRecord, int64, error) {
	var out *domain.InventoryRecord
	var sum int64
	err := r.with(func(st *state) error {
		rec, ok := st.inventory[productID]
		if !ok {
			return domain.ErrNotFound
		}
		out = &rec
		for _, ev := range st.events {
			if ev.ProductID == productID {
				sum += int64(ev.Quantity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, sum, nil
}
