package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectOrderHistory(t *testing.T) {
	order := &domain.Order{ID: 3, MemberID: 1, PropertyID: 10}
	item := &domain.OrderItem{ID: 9, OrderID: 3, ProductID: "sofa", Quantity: 2, DailyRateSnapshot: 700, RentalDays: 4, SubtotalCents: 5600}
	product := &domain.Product{ID: "sofa", Name: "Linen Sofa", DailyRateCents: 900}
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	h := service.ProjectOrderHistory(order, item, product, start, end)

	assert.Equal(t, int64(3), h.OrderID)
	assert.Equal(t, int64(9), h.OrderItemID)
	assert.Equal(t, "Linen Sofa", h.ProductNameSnapshot)
	// Rate comes from the order line, not the live product.
	assert.Equal(t, int64(700), h.DailyRateSnapshot)
	assert.Equal(t, int64(5600), h.SubtotalCents)
	assert.Equal(t, start, h.RentalStart)
	assert.Equal(t, end, h.RentalEnd)
	assert.Equal(t, domain.HistoryStatusConfirmed, h.Status)
}

func checkedOut(t *testing.T, f *fixture, memberID int32, productID string, qty int32) *domain.CheckoutResult {
	t.Helper()
	ctx := context.Background()
	f.contract(memberID, 10, daysFromNow(5))
	_, err := f.carts.AddItem(ctx, memberID, 10, productID, qty, 5)
	require.NoError(t, err)
	res, err := f.checkout.Checkout(ctx, paid(memberID, 10))
	require.NoError(t, err)
	return res
}

func TestOrderHistoryService_ListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.product("sofa", 100, 5)
	res := checkedOut(t, f, 1, "sofa", 2)

	overview, err := f.history.ListOrders(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, overview.Ongoing, 1)
	assert.Len(t, overview.Completed, 1)

	_, err = f.history.UpdateItemStatus(ctx, 1, res.History[0].ID, domain.HistoryStatusReturned)
	require.NoError(t, err)

	overview, err = f.history.ListOrders(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, overview.Ongoing)
	assert.Len(t, overview.Completed, 1)

	other, err := f.history.ListOrders(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Completed)
}

func TestOrderHistoryService_UpdateItemStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Return Releases Stock", func(t *testing.T) {
		f := newFixture()
		f.product("sofa", 100, 5)
		res := checkedOut(t, f, 1, "sofa", 2)
		id := res.History[0].ID

		h, err := f.history.UpdateItemStatus(ctx, 1, id, domain.HistoryStatusReturned)
		require.NoError(t, err)
		assert.Equal(t, domain.HistoryStatusReturned, h.Status)

		stock, err := f.ledger.Stock(ctx, "sofa")
		require.NoError(t, err)
		assert.Equal(t, int32(5), stock.AvailableQuantity)
		assert.Equal(t, int32(0), stock.RentedQuantity)

		events, err := f.ledger.Events(ctx, "sofa")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, domain.InventoryEventRelease, events[1].EventType)
		assert.Equal(t, domain.InventorySourceOrderHistory, events[1].SourceType)
		assert.Equal(t, id, events[1].SourceID)
		assert.Equal(t, int32(2), events[1].Quantity)
	})

	t.Run("Dispute Then Return", func(t *testing.T) {
		f := newFixture()
		f.product("sofa", 100, 5)
		res := checkedOut(t, f, 1, "sofa", 1)
		id := res.History[0].ID

		_, err := f.history.UpdateItemStatus(ctx, 1, id, domain.HistoryStatusDisputed)
		require.NoError(t, err)
		stock, err := f.ledger.Stock(ctx, "sofa")
		require.NoError(t, err)
		assert.Equal(t, int32(4), stock.AvailableQuantity)

		_, err = f.history.UpdateItemStatus(ctx, 1, id, domain.HistoryStatusReturned)
		require.NoError(t, err)
	})

	t.Run("Returned Is Final", func(t *testing.T) {
		f := newFixture()
		f.product("sofa", 100, 5)
		res := checkedOut(t, f, 1, "sofa", 1)
		id := res.History[0].ID

		_, err := f.history.UpdateItemStatus(ctx, 1, id, domain.HistoryStatusReturned)
		require.NoError(t, err)
		_, err = f.history.UpdateItemStatus(ctx, 1, id, domain.HistoryStatusReturned)
		assert.True(t, errors.Is(err, domain.ErrInvalidStatusTransition))

		stock, err := f.ledger.Stock(ctx, "sofa")
		require.NoError(t, err)
		assert.Equal(t, int32(5), stock.AvailableQuantity)
	})

	t.Run("Other Member", func(t *testing.T) {
		f := newFixture()
		f.product("sofa", 100, 5)
		res := checkedOut(t, f, 1, "sofa", 1)

		_, err := f.history.UpdateItemStatus(ctx, 2, res.History[0].ID, domain.HistoryStatusReturned)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
