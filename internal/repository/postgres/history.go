package postgres

import (
	"context"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type orderHistoryRepository struct {
	db DBTX
}

func NewOrderHistoryRepository(db DBTX) repository.OrderHistoryRepository {
	return &orderHistoryRepository{db: db}
}

const historyColumns = `id, order_id, order_item_id, member_id, property_id, product_id, product_name_snapshot,
	daily_rate_snapshot, quantity, rental_start, rental_end, subtotal_cents, item_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(s rowScanner, h *domain.OrderHistory) error {
	return s.Scan(&h.ID, &h.OrderID, &h.OrderItemID, &h.MemberID, &h.PropertyID, &h.ProductID, &h.ProductNameSnapshot,
		&h.DailyRateSnapshot, &h.Quantity, &h.RentalStart, &h.RentalEnd, &h.SubtotalCents, &h.Status, &h.CreatedAt, &h.UpdatedAt)
}

func (r *orderHistoryRepository) Create(ctx context.Context, h *domain.OrderHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	h.UpdatedAt = h.CreatedAt

	query := `INSERT INTO furniture_order_histories (` + historyColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.OrderID, h.OrderItemID, h.MemberID, h.PropertyID, h.ProductID, h.ProductNameSnapshot,
		h.DailyRateSnapshot, h.Quantity, h.RentalStart, h.RentalEnd, h.SubtotalCents, h.Status, h.CreatedAt, h.UpdatedAt)
	return storageError("orderHistoryRepository.Create", err)
}

func (r *orderHistoryRepository) GetForUpdate(ctx context.Context, id string) (*domain.OrderHistory, error) {
	h := &domain.OrderHistory{}
	query := `SELECT ` + historyColumns + ` FROM furniture_order_histories WHERE id = $1 FOR UPDATE`
	if err := scanHistory(r.db.QueryRowContext(ctx, query, id), h); err != nil {
		return nil, storageError("orderHistoryRepository.GetForUpdate", err)
	}
	return h, nil
}

func (r *orderHistoryRepository) UpdateStatus(ctx context.Context, id string, from, to domain.HistoryStatus, at time.Time) error {
	query := `UPDATE furniture_order_histories SET item_status = $1, updated_at = $2 WHERE id = $3 AND item_status = $4`
	logger.DatabaseCall("orderHistoryRepository.UpdateStatus", query, "historyID", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, to, at, id, from)
	if err != nil {
		logger.DatabaseResult("orderHistoryRepository.UpdateStatus", 0, err)
		return storageError("orderHistoryRepository.UpdateStatus", err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("orderHistoryRepository.UpdateStatus", n, err)
	if err != nil {
		return storageError("orderHistoryRepository.UpdateStatus", err)
	}
	if n == 0 {
		return domain.ErrStorageConflict
	}
	return nil
}

func (r *orderHistoryRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.OrderHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM furniture_order_histories
	          WHERE member_id = $1 ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, storageError("orderHistoryRepository.ListByMember", err)
	}
	defer rows.Close()

	var out []domain.OrderHistory
	for rows.Next() {
		var h domain.OrderHistory
		if err := scanHistory(rows, &h); err != nil {
			return nil, storageError("orderHistoryRepository.ListByMember", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("orderHistoryRepository.ListByMember", err)
	}
	return out, nil
}
