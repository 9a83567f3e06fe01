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

func reserveEvent(productID string, qty int32) *domain.InventoryEvent {
	return &domain.InventoryEvent{
		ProductID:  productID,
		Quantity:   -qty,
		EventType:  domain.InventoryEventReserve,
		SourceType: domain.InventorySourceOrder,
		SourceID:   "42",
	}
}

func TestInventoryRepository_Reserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ev := reserveEvent("sofa", 2)
		mock.ExpectQuery("UPDATE furniture_inventories (.+) WHERE product_id = \\$3 AND available_quantity >= \\$1").
			WithArgs(2, sqlmock.AnyArg(), "sofa").
			WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}).AddRow(3))
		mock.ExpectExec("INSERT INTO inventory_events").
			WithArgs(sqlmock.AnyArg(), "sofa", -2, "RESERVE", "ORDER", "42", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Reserve(ctx, ev))
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.RecordedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		mock.ExpectQuery("UPDATE furniture_inventories").
			WithArgs(2, sqlmock.AnyArg(), "sofa").
			WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}))
		mock.ExpectQuery("SELECT (.+) FROM furniture_inventories WHERE product_id = \\$1").
			WithArgs("sofa").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "available_quantity", "rented_quantity", "updated_at"}).
				AddRow("sofa", 1, 4, time.Now()))

		err := repo.Reserve(ctx, reserveEvent("sofa", 2))
		var se *domain.StockError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, int32(1), se.Available)
		assert.Equal(t, int32(2), se.Requested)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Product", func(t *testing.T) {
		mock.ExpectQuery("UPDATE furniture_inventories").
			WithArgs(1, sqlmock.AnyArg(), "ghost").
			WillReturnRows(sqlmock.NewRows([]string{"available_quantity"}))
		mock.ExpectQuery("SELECT (.+) FROM furniture_inventories WHERE product_id = \\$1").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "available_quantity", "rented_quantity", "updated_at"}))

		err := repo.Reserve(ctx, reserveEvent("ghost", 1))
		assert.True(t, errors.Is(err, domain.ErrProductUnavailable))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Positive Delta", func(t *testing.T) {
		ev := reserveEvent("sofa", 1)
		ev.Quantity = 1
		err := repo.Reserve(ctx, ev)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	})
}

func TestInventoryRepository_Snapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewInventoryRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM furniture_inventories i WHERE i.product_id = \\$1").
		WithArgs("sofa").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "available_quantity", "rented_quantity", "updated_at", "sum"}).
			AddRow("sofa", 6, 4, time.Now(), -4))

	rec, sum, err := repo.Snapshot(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Equal(t, int32(10), rec.TotalQuantity())
	assert.Equal(t, int64(-4), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}
