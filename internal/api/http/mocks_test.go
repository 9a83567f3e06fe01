package http_test

import (
	"context"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository"
	"furniture-rental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockCartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) FindOrCreateActiveCart(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error) {
	args := m.Called(ctx, memberID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) GetCart(ctx context.Context, memberID, propertyID int32) (*domain.CartSummary, error) {
	args := m.Called(ctx, memberID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartSummary), args.Error(1)
}
func (m *MockCartService) AddItem(ctx context.Context, memberID, propertyID int32, productID string, quantity, rentalDays int32) (*domain.Cart, error) {
	args := m.Called(ctx, memberID, propertyID, productID, quantity, rentalDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartService) UpdateItemQuantity(ctx context.Context, memberID int32, itemID string, quantity int32) error {
	args := m.Called(ctx, memberID, itemID, quantity)
	return args.Error(0)
}
func (m *MockCartService) RemoveItem(ctx context.Context, memberID int32, itemID string) error {
	args := m.Called(ctx, memberID, itemID)
	return args.Error(0)
}
func (m *MockCartService) CancelCart(ctx context.Context, memberID int32, cartID string) error {
	args := m.Called(ctx, memberID, cartID)
	return args.Error(0)
}

// MockCheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutResult), args.Error(1)
}

// MockOrderHistoryService
type MockOrderHistoryService struct {
	mock.Mock
}

func (m *MockOrderHistoryService) ListOrders(ctx context.Context, memberID int32) (*domain.OrderOverview, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderOverview), args.Error(1)
}
func (m *MockOrderHistoryService) UpdateItemStatus(ctx context.Context, memberID int32, historyID string, status domain.HistoryStatus) (*domain.OrderHistory, error) {
	args := m.Called(ctx, memberID, historyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderHistory), args.Error(1)
}

// MockInventoryLedger
type MockInventoryLedger struct {
	mock.Mock
}

func (m *MockInventoryLedger) Reserve(ctx context.Context, productID string, quantity int32, sourceType domain.InventorySourceType, sourceID string) (*domain.InventoryEvent, error) {
	args := m.Called(ctx, productID, quantity, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryEvent), args.Error(1)
}
func (m *MockInventoryLedger) Release(ctx context.Context, productID string, quantity int32, sourceType domain.InventorySourceType, sourceID string) (*domain.InventoryEvent, error) {
	args := m.Called(ctx, productID, quantity, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryEvent), args.Error(1)
}
func (m *MockInventoryLedger) Stock(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryRecord), args.Error(1)
}
func (m *MockInventoryLedger) Events(ctx context.Context, productID string) ([]domain.InventoryEvent, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.InventoryEvent), args.Error(1)
}
func (m *MockInventoryLedger) Reconcile(ctx context.Context, productID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}
func (m *MockInventoryLedger) ReconcileAll(ctx context.Context) ([]domain.ReconciliationReport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ReconciliationReport), args.Error(1)
}
func (m *MockInventoryLedger) WithRepository(repo repository.InventoryRepository) service.InventoryLedger {
	return m
}
