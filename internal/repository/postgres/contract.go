package postgres

import (
	"context"
	"database/sql"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/repository"
)

type contractRepository struct {
	db DBTX
}

func NewContractRepository(db DBTX) repository.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetActive(ctx context.Context, memberID, propertyID int32) (*domain.RentalContract, error) {
	c := &domain.RentalContract{}
	var endDate sql.NullTime
	query := `SELECT id, member_id, property_id, start_date, end_date, status
	          FROM rental_contracts
	          WHERE member_id = $1 AND property_id = $2 AND status = $3`
	err := r.db.QueryRowContext(ctx, query, memberID, propertyID, domain.ContractStatusActive).
		Scan(&c.ID, &c.MemberID, &c.PropertyID, &c.StartDate, &endDate, &c.Status)
	if err != nil {
		return nil, storageError("contractRepository.GetActive", err)
	}
	if endDate.Valid {
		end := endDate.Time
		c.EndDate = &end
	}
	return c, nil
}
