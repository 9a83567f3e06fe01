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

var cartRowColumns = []string{"id", "member_id", "property_id", "status", "created_at", "updated_at"}
var cartItemColumns = []string{"id", "cart_id", "product_id", "quantity", "rental_days", "created_at"}

func TestCartRepository_FindOrCreateOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCartRepository(db)
	now := time.Now()

	mock.ExpectExec("INSERT INTO furniture_carts (.+) ON CONFLICT \\(member_id, property_id\\) WHERE status <> 'ORDERED' DO NOTHING").
		WithArgs(sqlmock.AnyArg(), 1, 10, "IN_CART", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM furniture_carts WHERE member_id = \\$1 AND property_id = \\$2").
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows(cartRowColumns).AddRow("cart-1", 1, 10, "IN_CART", now, now))
	mock.ExpectQuery("SELECT (.+) FROM furniture_cart_items WHERE cart_id = \\$1").
		WithArgs("cart-1").
		WillReturnRows(sqlmock.NewRows(cartItemColumns).AddRow("item-1", "cart-1", "sofa", 2, 30, now))

	cart, err := repo.FindOrCreateOpen(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(2), cart.Items[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_AddItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCartRepository(db)
	now := time.Now()

	item := &domain.CartItem{CartID: "cart-1", ProductID: "sofa", Quantity: 3, RentalDays: 14}
	mock.ExpectQuery("INSERT INTO furniture_cart_items (.+) ON CONFLICT \\(cart_id, product_id\\)").
		WithArgs(sqlmock.AnyArg(), "cart-1", "sofa", 3, 14, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity", "rental_days", "created_at"}).AddRow("item-1", 5, 30, now))

	require.NoError(t, repo.AddItem(context.Background(), item))
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, int32(5), item.Quantity)
	assert.Equal(t, int32(30), item.RentalDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCartRepository(db)
	ctx := context.Background()

	t.Run("Open Cart", func(t *testing.T) {
		mock.ExpectExec("UPDATE furniture_carts SET status = \\$1").
			WithArgs("ORDERED", sqlmock.AnyArg(), "cart-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Close(ctx, "cart-1"))
	})

	t.Run("Already Ordered", func(t *testing.T) {
		mock.ExpectExec("UPDATE furniture_carts SET status = \\$1").
			WithArgs("ORDERED", sqlmock.AnyArg(), "cart-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := repo.Close(ctx, "cart-1")
		assert.True(t, errors.Is(err, domain.ErrCartAlreadyOrdered))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
