package postgres_test

import (
	"context"
	"testing"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	order := &domain.Order{MemberID: 1, PropertyID: 10, ContractID: 5, Status: domain.OrderStatusPaid, TotalCents: 24000}
	mock.ExpectQuery("INSERT INTO furniture_orders").
		WithArgs(1, 10, 5, "PAID", 24000, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	require.NoError(t, repo.Create(ctx, order))
	assert.Equal(t, int64(77), order.ID)

	item := &domain.OrderItem{OrderID: 77, ProductID: "sofa", Quantity: 2, DailyRateSnapshot: 1200, RentalDays: 10, SubtotalCents: 24000}
	mock.ExpectQuery("INSERT INTO furniture_order_items").
		WithArgs(77, "sofa", 2, 1200, 10, 24000, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	require.NoError(t, repo.CreateItem(ctx, item))
	assert.Equal(t, int64(3), item.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM furniture_orders WHERE id = \\$1").
		WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "property_id", "contract_id", "status", "total_cents", "created_at"}).
			AddRow(77, 1, 10, 5, "PAID", 24000, now))
	mock.ExpectQuery("SELECT (.+) FROM furniture_order_items WHERE order_id = \\$1").
		WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "daily_rate_snapshot", "rental_days", "subtotal_cents", "created_at"}).
			AddRow(3, 77, "sofa", 2, 1200, 10, 24000, now))

	order, err := repo.GetByID(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(1200), order.Items[0].DailyRateSnapshot)
	assert.NoError(t, mock.ExpectationsWereMet())
}
