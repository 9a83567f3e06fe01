package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHistoryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderHistoryRepository(db)
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	h := &domain.OrderHistory{
		OrderID: 1, OrderItemID: 2, MemberID: 3, PropertyID: 4,
		ProductID: "sofa", ProductNameSnapshot: "Linen Sofa", DailyRateSnapshot: 700, Quantity: 2,
		RentalStart: start, RentalEnd: start.AddDate(0, 0, 5), SubtotalCents: 7000,
		Status: domain.HistoryStatusConfirmed,
	}

	mock.ExpectExec("INSERT INTO furniture_order_histories").
		WithArgs(sqlmock.AnyArg(), 1, 2, 3, 4, "sofa", "Linen Sofa", 700, 2, h.RentalStart, h.RentalEnd, 7000, "CONFIRMED", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), h))
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, h.CreatedAt, h.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderHistoryRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderHistoryRepository(db)
	ctx := context.Background()
	at := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE furniture_order_histories SET item_status = \\$1").
			WithArgs("RETURNED", at, "h-1", "CONFIRMED").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.UpdateStatus(ctx, "h-1", domain.HistoryStatusConfirmed, domain.HistoryStatusReturned, at))
	})

	t.Run("Stale Status", func(t *testing.T) {
		mock.ExpectExec("UPDATE furniture_order_histories SET item_status = \\$1").
			WithArgs("RETURNED", at, "h-1", "CONFIRMED").
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := repo.UpdateStatus(ctx, "h-1", domain.HistoryStatusConfirmed, domain.HistoryStatusReturned, at)
		assert.True(t, errors.Is(err, domain.ErrStorageConflict))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
