package postgres

import (
	"context"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository"

	"github.com/lib/pq"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, name, daily_rate_cents, active FROM furniture_products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.DailyRateCents, &p.Active)
	if err != nil {
		return nil, storageError("productRepository.GetByID", err)
	}
	return p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query := `SELECT id, name, daily_rate_cents, active FROM furniture_products WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, storageError("productRepository.GetByIDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.DailyRateCents, &p.Active); err != nil {
			return nil, storageError("productRepository.GetByIDs", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("productRepository.GetByIDs", err)
	}
	return products, nil
}
