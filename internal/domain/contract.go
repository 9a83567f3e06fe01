package domain

import "time"

type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "PENDING"
	ContractStatusActive   ContractStatus = "ACTIVE"
	ContractStatusEnded    ContractStatus = "ENDED"
	ContractStatusRejected ContractStatus = "REJECTED"
)

// RentalContract is the signed lease for one member and property. EndDate is
// nil for open-ended leases.
type RentalContract struct {
	ID         int64          `json:"id"`
	MemberID   int32          `json:"member_id"`
	PropertyID int32          `json:"property_id"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	Status     ContractStatus `json:"status"`
}

func (c *RentalContract) IsOpenEnded() bool {
	return c.EndDate == nil
}
