package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository"
	"furniture-rental-backend/internal/repository/memory"
	"furniture-rental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) GetActive(ctx context.Context, memberID, propertyID int32) (*domain.RentalContract, error) {
	args := m.Called(ctx, memberID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalContract), args.Error(1)
}

// faultyStore wraps the memory store and swaps in an inventory repository
// whose Reserve calls fail according to reserveErr.
type faultyStore struct {
	*memory.Store

	mu         sync.Mutex
	calls      int
	reserveErr func(call int) error
}

func (s *faultyStore) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(repos repository.Repositories) error {
		repos.Inventory = &faultyInventory{InventoryRepository: repos.Inventory, store: s}
		return fn(repos)
	})
}

type faultyInventory struct {
	repository.InventoryRepository
	store *faultyStore
}

func (f *faultyInventory) Reserve(ctx context.Context, ev *domain.InventoryEvent) error {
	f.store.mu.Lock()
	f.store.calls++
	call := f.store.calls
	f.store.mu.Unlock()
	if err := f.store.reserveErr(call); err != nil {
		return err
	}
	return f.InventoryRepository.Reserve(ctx, ev)
}

var errDiskFull = errors.New("disk full")

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type fixture struct {
	store     *memory.Store
	contracts service.ContractResolver
	ledger    service.InventoryLedger
	carts     service.CartService
	checkout  service.CheckoutService
	history   service.OrderHistoryService
}

func newFixture() *fixture {
	store := memory.NewStore()
	return newFixtureWith(store, store)
}

func newFixtureWith(mem *memory.Store, store repository.Store) *fixture {
	contracts := service.NewContractResolver(store.Repos().Contracts, 6, time.UTC)
	ledger := service.NewInventoryLedger(store, store.Repos().Inventory, fixedClock)
	return &fixture{
		store:     mem,
		contracts: contracts,
		ledger:    ledger,
		carts:     service.NewCartService(store, contracts, fixedClock),
		checkout:  service.NewCheckoutService(store, contracts, ledger, 3, fixedClock),
		history:   service.NewOrderHistoryService(store, ledger, fixedClock),
	}
}

func (f *fixture) product(id string, rateCents int64, available int32) {
	f.store.PutProduct(domain.Product{ID: id, Name: "Product " + id, DailyRateCents: rateCents, Active: true})
	f.store.SetStock(id, available, 0)
}

func (f *fixture) contract(memberID, propertyID int32, end *time.Time) domain.RentalContract {
	return f.store.PutContract(domain.RentalContract{
		MemberID:   memberID,
		PropertyID: propertyID,
		StartDate:  testNow.AddDate(0, -1, 0),
		EndDate:    end,
		Status:     domain.ContractStatusActive,
	})
}

func daysFromNow(n int) *time.Time {
	d := time.Date(testNow.Year(), testNow.Month(), testNow.Day()+n, 0, 0, 0, 0, time.UTC)
	return &d
}
