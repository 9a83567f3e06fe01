package postgres

import (
	"context"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type cartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) repository.CartRepository {
	return &cartRepository{db: db}
}

const cartColumns = `id, member_id, property_id, status, created_at, updated_at`

func (r *cartRepository) FindOpen(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM furniture_carts
	          WHERE member_id = $1 AND property_id = $2 AND status <> 'ORDERED'`
	return r.getCart(ctx, "cartRepository.FindOpen", query, memberID, propertyID)
}

// FindOrCreateOpen relies on the partial unique index furniture_carts_one_open:
// a concurrent insert for the same pair becomes a no-op and the follow-up
// read returns the winner's row.
func (r *cartRepository) FindOrCreateOpen(ctx context.Context, memberID, propertyID int32) (*domain.Cart, error) {
	logger.EnterMethod("cartRepository.FindOrCreateOpen", "memberID", memberID, "propertyID", propertyID)

	now := time.Now()
	query := `INSERT INTO furniture_carts (id, member_id, property_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (member_id, property_id) WHERE status <> 'ORDERED' DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, uuid.NewString(), memberID, propertyID, domain.CartStatusInCart, now)
	if err != nil {
		logger.ExitMethodWithError("cartRepository.FindOrCreateOpen", err, "memberID", memberID)
		return nil, storageError("cartRepository.FindOrCreateOpen", err)
	}
	created, _ := res.RowsAffected()

	cart, err := r.FindOpen(ctx, memberID, propertyID)
	if err != nil {
		logger.ExitMethodWithError("cartRepository.FindOrCreateOpen", err, "memberID", memberID)
		return nil, err
	}

	logger.ExitMethod("cartRepository.FindOrCreateOpen", "cartID", cart.ID, "created", created == 1)
	return cart, nil
}

func (r *cartRepository) GetByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM furniture_carts WHERE id = $1`
	return r.getCart(ctx, "cartRepository.GetByID", query, cartID)
}

func (r *cartRepository) GetForUpdate(ctx context.Context, cartID string) (*domain.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM furniture_carts WHERE id = $1 FOR UPDATE`
	return r.getCart(ctx, "cartRepository.GetForUpdate", query, cartID)
}

func (r *cartRepository) getCart(ctx context.Context, op, query string, args ...any) (*domain.Cart, error) {
	c := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.MemberID, &c.PropertyID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, storageError(op, err)
	}

	items, err := r.listItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (r *cartRepository) listItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	query := `SELECT id, cart_id, product_id, quantity, rental_days, created_at
	          FROM furniture_cart_items WHERE cart_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, storageError("cartRepository.listItems", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.RentalDays, &it.CreatedAt); err != nil {
			return nil, storageError("cartRepository.listItems", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("cartRepository.listItems", err)
	}
	return items, nil
}

// AddItem upserts on (cart_id, product_id). The increment happens in the
// database so concurrent adds of the same product never lose an update. The
// rental days chosen on the first add are kept.
func (r *cartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `INSERT INTO furniture_cart_items (id, cart_id, product_id, quantity, rental_days, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (cart_id, product_id)
	          DO UPDATE SET quantity = furniture_cart_items.quantity + EXCLUDED.quantity
	          RETURNING id, quantity, rental_days, created_at`
	err := r.db.QueryRowContext(ctx, query, item.ID, item.CartID, item.ProductID, item.Quantity, item.RentalDays, time.Now()).
		Scan(&item.ID, &item.Quantity, &item.RentalDays, &item.CreatedAt)
	return storageError("cartRepository.AddItem", err)
}

func (r *cartRepository) GetItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	it := &domain.CartItem{}
	query := `SELECT id, cart_id, product_id, quantity, rental_days, created_at FROM furniture_cart_items WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, itemID).
		Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.RentalDays, &it.CreatedAt)
	if err != nil {
		return nil, storageError("cartRepository.GetItem", err)
	}
	return it, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int32) error {
	query := `UPDATE furniture_cart_items SET quantity = $1 WHERE id = $2`
	return r.execOne(ctx, "cartRepository.UpdateItemQuantity", domain.ErrNotFound, query, quantity, itemID)
}

func (r *cartRepository) RemoveItem(ctx context.Context, itemID string) error {
	query := `DELETE FROM furniture_cart_items WHERE id = $1`
	return r.execOne(ctx, "cartRepository.RemoveItem", domain.ErrNotFound, query, itemID)
}

func (r *cartRepository) Close(ctx context.Context, cartID string) error {
	query := `UPDATE furniture_carts SET status = $1, updated_at = $2 WHERE id = $3 AND status <> $1`
	return r.execOne(ctx, "cartRepository.Close", domain.ErrCartAlreadyOrdered, query, domain.CartStatusOrdered, time.Now(), cartID)
}

func (r *cartRepository) Delete(ctx context.Context, cartID string) error {
	query := `DELETE FROM furniture_carts WHERE id = $1 AND status <> 'ORDERED'`
	return r.execOne(ctx, "cartRepository.Delete", domain.ErrCartAlreadyOrdered, query, cartID)
}

// execOne runs a statement that must touch exactly one row and returns
// noRows when it touched none.
func (r *cartRepository) execOne(ctx context.Context, op string, noRows error, query string, args ...any) error {
	logger.DatabaseCall(op, query)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return storageError(op, err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult(op, n, err)
	if err != nil {
		return storageError(op, err)
	}
	if n == 0 {
		return noRows
	}
	return nil
}
