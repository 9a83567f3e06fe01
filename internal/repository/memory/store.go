// Package memory is an in-process implementation of the repository contracts.
// Transactions are serialized behind one mutex and run against a copy of the
// state that is swapped in only when the unit of work succeeds.
package memory

import (
	"context"
	"sync"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository"
)

type state struct {
	products    map[string]domain.Product
	contracts   map[int64]domain.RentalContract
	carts       map[string]*domain.Cart
	orders      map[int64]*domain.Order
	history     map[string]domain.OrderHistory
	inventory   map[string]domain.InventoryRecord
	events      []domain.InventoryEvent
	nextOrderID int64
	nextItemID  int64
	nextContrID int64
}

func newState() *state {
	return &state{
		products:  make(map[string]domain.Product),
		contracts: make(map[int64]domain.RentalContract),
		carts:     make(map[string]*domain.Cart),
		orders:    make(map[int64]*domain.Order),
		history:   make(map[string]domain.OrderHistory),
		inventory: make(map[string]domain.InventoryRecord),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:    make(map[string]domain.Product, len(s.products)),
		contracts:   make(map[int64]domain.RentalContract, len(s.contracts)),
		carts:       make(map[string]*domain.Cart, len(s.carts)),
		orders:      make(map[int64]*domain.Order, len(s.orders)),
		history:     make(map[string]domain.OrderHistory, len(s.history)),
		inventory:   make(map[string]domain.InventoryRecord, len(s.inventory)),
		events:      append([]domain.InventoryEvent(nil), s.events...),
		nextOrderID: s.nextOrderID,
		nextItemID:  s.nextItemID,
		nextContrID: s.nextContrID,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.contracts {
		c.contracts[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = copyCart(v)
	}
	for k, v := range s.orders {
		o := *v
		o.Items = append([]domain.OrderItem(nil), v.Items...)
		c.orders[k] = &o
	}
	for k, v := range s.history {
		c.history[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	return c
}

func copyCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = append([]domain.CartItem(nil), c.Items...)
	return &out
}

type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// access runs fn against the state. Autocommit views take the store lock per
// call; transactional views already hold it.
type access func(fn func(st *state) error) error

func (s *Store) autocommit(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Store) repositories(with access) repository.Repositories {
	return repository.Repositories{
		Products:  &productRepository{with: with},
		Contracts: &contractRepository{with: with},
		Carts:     &cartRepository{with: with, now: s.now},
		Orders:    &orderRepository{with: with, now: s.now},
		History:   &historyRepository{with: with, now: s.now},
		Inventory: &inventoryRepository{with: with, now: s.now},
	}
}

func (s *Store) Repos() repository.Repositories {
	return s.repositories(s.autocommit)
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	with := func(f func(st *state) error) error { return f(work) }
	if err := fn(s.repositories(with)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Seeding helpers for dev runs and tests. Products and contracts are owned by
// other subsystems, so the repositories only read them.

func (s *Store) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID] = p
}

func (s *Store) DeleteProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.products, id)
}

func (s *Store) PutContract(c domain.RentalContract) domain.RentalContract {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		s.state.nextContrID++
		c.ID = s.state.nextContrID
	}
	s.state.contracts[c.ID] = c
	return c
}

func (s *Store) SetStock(productID string, available, rented int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.inventory[productID] = domain.InventoryRecord{
		ProductID:         productID,
		AvailableQuantity: available,
		RentedQuantity:    rented,
		UpdatedAt:         s.now(),
	}
}

// Counts reports how many rows each workflow table holds.
type Counts struct {
	Carts      int
	OpenCarts  int
	Orders     int
	OrderItems int
	History    int
	Events     int
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{
		Carts:   len(s.state.carts),
		Orders:  len(s.state.orders),
		History: len(s.state.history),
		Events:  len(s.state.events),
	}
	for _, cart := range s.state.carts {
		if cart.IsOpen() {
			c.OpenCarts++
		}
	}
	for _, o := range s.state.orders {
		c.OrderItems += len(o.Items)
	}
	return c
}
