package service

import (
	"context"
	"errors"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
	"furniture-rental-backend/internal/utils"
)

type contractResolver struct {
	contracts     repository.ContractRepository
	horizonMonths int
	loc           *time.Location
}

// NewContractResolver builds a resolver. Open-ended leases are billed up to
// horizonMonths after the billing date. Calendar dates are taken in loc.
func NewContractResolver(contracts repository.ContractRepository, horizonMonths int, loc *time.Location) ContractResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &contractResolver{
		contracts:     contracts,
		horizonMonths: horizonMonths,
		loc:           loc,
	}
}

func (r *contractResolver) WithRepository(repo repository.ContractRepository) ContractResolver {
	bound := *r
	bound.contracts = repo
	return &bound
}

func (r *contractResolver) ResolveActiveContract(ctx context.Context, memberID, propertyID int32) (*domain.RentalContract, error) {
	c, err := r.contracts.GetActive(ctx, memberID, propertyID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No active contract", "memberID", memberID, "propertyID", propertyID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// BillableDays is max(0, end - asOf) in whole days. The time of day in asOf is
// ignored, so a partial day is never billed.
func (r *contractResolver) BillableDays(contract *domain.RentalContract, asOf time.Time) int32 {
	today := utils.CivilDate(asOf.In(r.loc))
	days := utils.DaysBetween(today, r.endDate(contract, today))
	if days < 0 {
		return 0
	}
	return days
}

func (r *contractResolver) RentalWindow(contract *domain.RentalContract, asOf time.Time) (time.Time, time.Time) {
	start := utils.CivilDate(asOf.In(r.loc))
	return start, start.AddDate(0, 0, int(r.BillableDays(contract, asOf)))
}

func (r *contractResolver) endDate(contract *domain.RentalContract, today time.Time) time.Time {
	if contract.IsOpenEnded() {
		return today.AddDate(0, r.horizonMonths, 0)
	}
	// Stored as a DATE; its components are already the calendar date.
	return utils.CivilDate(*contract.EndDate)
}
