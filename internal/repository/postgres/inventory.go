package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type inventoryRepository struct {
	db DBTX
}

func NewInventoryRepository(db DBTX) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Get(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	rec := &domain.InventoryRecord{}
	query := `SELECT product_id, available_quantity, rented_quantity, updated_at FROM furniture_inventories WHERE product_id = $1`
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&rec.ProductID, &rec.AvailableQuantity, &rec.RentedQuantity, &rec.UpdatedAt)
	if err != nil {
		return nil, storageError("inventoryRepository.Get", err)
	}
	return rec, nil
}

func (r *inventoryRepository) GetMany(ctx context.Context, productIDs []string) (map[string]domain.InventoryRecord, error) {
	out := make(map[string]domain.InventoryRecord, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `SELECT product_id, available_quantity, rented_quantity, updated_at FROM furniture_inventories WHERE product_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, storageError("inventoryRepository.GetMany", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.AvailableQuantity, &rec.RentedQuantity, &rec.UpdatedAt); err != nil {
			return nil, storageError("inventoryRepository.GetMany", err)
		}
		out[rec.ProductID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("inventoryRepository.GetMany", err)
	}
	return out, nil
}

func (r *inventoryRepository) ListProductIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product_id FROM furniture_inventories ORDER BY product_id`)
	if err != nil {
		return nil, storageError("inventoryRepository.ListProductIDs", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageError("inventoryRepository.ListProductIDs", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("inventoryRepository.ListProductIDs", err)
	}
	return ids, nil
}

// Reserve decrements available stock with a guarded UPDATE, so the check and
// the write happen under the same row lock. ev.Quantity must be negative.
func (r *inventoryRepository) Reserve(ctx context.Context, ev *domain.InventoryEvent) error {
	if ev.Quantity >= 0 {
		return fmt.Errorf("reserve: %w", domain.ErrInvalidQuantity)
	}
	qty := -ev.Quantity
	query := `UPDATE furniture_inventories
	          SET available_quantity = available_quantity - $1, rented_quantity = rented_quantity + $1, updated_at = $2
	          WHERE product_id = $3 AND available_quantity >= $1
	          RETURNING available_quantity`
	return r.move(ctx, "inventoryRepository.Reserve", query, qty, ev)
}

// Release moves rented stock back to available. ev.Quantity must be positive.
func (r *inventoryRepository) Release(ctx context.Context, ev *domain.InventoryEvent) error {
	if ev.Quantity <= 0 {
		return fmt.Errorf("release: %w", domain.ErrInvalidQuantity)
	}
	query := `UPDATE furniture_inventories
	          SET available_quantity = available_quantity + $1, rented_quantity = rented_quantity - $1, updated_at = $2
	          WHERE product_id = $3 AND rented_quantity >= $1
	          RETURNING available_quantity`
	return r.move(ctx, "inventoryRepository.Release", query, ev.Quantity, ev)
}

func (r *inventoryRepository) move(ctx context.Context, op, query string, qty int32, ev *domain.InventoryEvent) error {
	logger.EnterMethod(op, "productID", ev.ProductID, "quantity", qty, "sourceID", ev.SourceID)

	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = time.Now()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = ev.RecordedAt
	}

	var available int32
	err := r.db.QueryRowContext(ctx, query, qty, ev.RecordedAt, ev.ProductID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.stockError(ctx, ev.ProductID, qty, ev.EventType)
		logger.ExitMethodWithError(op, err, "productID", ev.ProductID)
		return err
	}
	if err != nil {
		logger.ExitMethodWithError(op, err, "productID", ev.ProductID)
		return storageError(op, err)
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	insert := `INSERT INTO inventory_events (id, product_id, quantity, event_type, source_type, source_id, occurred_at, recorded_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, insert, ev.ID, ev.ProductID, ev.Quantity, ev.EventType, ev.SourceType, ev.SourceID, ev.OccurredAt, ev.RecordedAt); err != nil {
		logger.ExitMethodWithError(op, err, "productID", ev.ProductID)
		return storageError(op, err)
	}

	logger.ExitMethod(op, "productID", ev.ProductID, "available", available, "eventID", ev.ID)
	return nil
}

// stockError explains why a guarded UPDATE matched no row: either the product
// has no inventory row or the relevant counter is too small.
func (r *inventoryRepository) stockError(ctx context.Context, productID string, qty int32, eventType domain.InventoryEventType) error {
	rec, err := r.Get(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ProductError{ProductID: productID}
	}
	if err != nil {
		return err
	}
	have := rec.AvailableQuantity
	if eventType == domain.InventoryEventRelease {
		have = rec.RentedQuantity
	}
	return &domain.StockError{ProductID: productID, Requested: qty, Available: have}
}

func (r *inventoryRepository) ListEvents(ctx context.Context, productID string) ([]domain.InventoryEvent, error) {
	query := `SELECT id, product_id, quantity, event_type, source_type, source_id, occurred_at, recorded_at
	          FROM inventory_events WHERE product_id = $1 ORDER BY recorded_at, id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, storageError("inventoryRepository.ListEvents", err)
	}
	defer rows.Close()

	var events []domain.InventoryEvent
	for rows.Next() {
		var ev domain.InventoryEvent
		if err := rows.Scan(&ev.ID, &ev.ProductID, &ev.Quantity, &ev.EventType, &ev.SourceType, &ev.SourceID, &ev.OccurredAt, &ev.RecordedAt); err != nil {
			return nil, storageError("inventoryRepository.ListEvents", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("inventoryRepository.ListEvents", err)
	}
	return events, nil
}

func (r *inventoryRepository) Snapshot(ctx context.Context, productID string) (*domain.InventoryRecord, int64, error) {
	rec := &domain.InventoryRecord{}
	var sum int64
	query := `SELECT i.product_id, i.available_quantity, i.rented_quantity, i.updated_at,
	                 COALESCE((SELECT SUM(e.quantity) FROM inventory_events e WHERE e.product_id = i.product_id), 0)
	          FROM furniture_inventories i WHERE i.product_id = $1`
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&rec.ProductID, &rec.AvailableQuantity, &rec.RentedQuantity, &rec.UpdatedAt, &sum)
	if err != nil {
		return nil, 0, storageError("inventoryRepository.Snapshot", err)
	}
	return rec, sum, nil
}
