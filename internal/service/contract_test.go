package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractResolver_ResolveActiveContract(t *testing.T) {
	ctx := context.Background()

	t.Run("Active", func(t *testing.T) {
		repo := new(MockContractRepo)
		c := &domain.RentalContract{ID: 7, MemberID: 1, PropertyID: 2, Status: domain.ContractStatusActive}
		repo.On("GetActive", ctx, int32(1), int32(2)).Return(c, nil)

		got, err := service.NewContractResolver(repo, 6, time.UTC).ResolveActiveContract(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("None", func(t *testing.T) {
		repo := new(MockContractRepo)
		repo.On("GetActive", ctx, int32(1), int32(2)).Return(nil, domain.ErrNotFound)

		got, err := service.NewContractResolver(repo, 6, time.UTC).ResolveActiveContract(ctx, 1, 2)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		repo := new(MockContractRepo)
		repo.On("GetActive", ctx, int32(1), int32(2)).Return(nil, domain.ErrStorageFailure)

		got, err := service.NewContractResolver(repo, 6, time.UTC).ResolveActiveContract(ctx, 1, 2)
		assert.True(t, errors.Is(err, domain.ErrStorageFailure))
		assert.Nil(t, got)
	})
}

func TestContractResolver_BillableDays(t *testing.T) {
	resolver := service.NewContractResolver(new(MockContractRepo), 6, time.UTC)
	asOf := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  *time.Time
		want int32
	}{
		{"Ten Days Ahead", daysFromNow(10), 10},
		{"Ends Today", daysFromNow(0), 0},
		{"Ended Last Week", daysFromNow(-7), 0},
		{"Open Ended", nil, 184}, // 2026-03-10 to 2026-09-10
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.RentalContract{EndDate: tt.end, Status: domain.ContractStatusActive}
			assert.Equal(t, tt.want, resolver.BillableDays(c, asOf))
		})
	}
}

func TestContractResolver_BillableDaysUsesConfiguredZone(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	resolver := service.NewContractResolver(new(MockContractRepo), 6, taipei)

	// 20:00 UTC on March 10 is already March 11 in UTC+8.
	asOf := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)
	c := &domain.RentalContract{EndDate: daysFromNow(10)}

	assert.Equal(t, int32(9), resolver.BillableDays(c, asOf))

	start, end := resolver.RentalWindow(c, asOf)
	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), end)
}
