package postgres

import (
	"context"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
)

type orderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	logger.EnterMethod("orderRepository.Create", "memberID", o.MemberID, "propertyID", o.PropertyID)

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	query := `INSERT INTO furniture_orders (member_id, property_id, contract_id, status, total_cents, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, o.MemberID, o.PropertyID, o.ContractID, o.Status, o.TotalCents, o.CreatedAt).Scan(&o.ID)
	if err != nil {
		logger.ExitMethodWithError("orderRepository.Create", err, "memberID", o.MemberID)
		return storageError("orderRepository.Create", err)
	}

	logger.ExitMethod("orderRepository.Create", "orderID", o.ID)
	return nil
}

func (r *orderRepository) CreateItem(ctx context.Context, it *domain.OrderItem) error {
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	query := `INSERT INTO furniture_order_items (order_id, product_id, quantity, daily_rate_snapshot, rental_days, subtotal_cents, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, it.OrderID, it.ProductID, it.Quantity, it.DailyRateSnapshot, it.RentalDays, it.SubtotalCents, it.CreatedAt).Scan(&it.ID)
	return storageError("orderRepository.CreateItem", err)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o := &domain.Order{}
	query := `SELECT id, member_id, property_id, contract_id, status, total_cents, created_at FROM furniture_orders WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.MemberID, &o.PropertyID, &o.ContractID, &o.Status, &o.TotalCents, &o.CreatedAt)
	if err != nil {
		return nil, storageError("orderRepository.GetByID", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, order_id, product_id, quantity, daily_rate_snapshot, rental_days, subtotal_cents, created_at
	                                     FROM furniture_order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, storageError("orderRepository.GetByID", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.DailyRateSnapshot, &it.RentalDays, &it.SubtotalCents, &it.CreatedAt); err != nil {
			return nil, storageError("orderRepository.GetByID", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("orderRepository.GetByID", err)
	}
	return o, nil
}

func (r *orderRepository) CountByMember(ctx context.Context, memberID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM furniture_orders WHERE member_id = $1`, memberID).Scan(&count)
	return count, storageError("orderRepository.CountByMember", err)
}
