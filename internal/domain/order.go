package domain

import "time"

type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "PAID"
)

type Order struct {
	ID         int64       `json:"id"`
	MemberID   int32       `json:"member_id"`
	PropertyID int32       `json:"property_id"`
	ContractID int64       `json:"contract_id"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderItem carries the daily rate as it was at checkout, never a live rate.
type OrderItem struct {
	ID                int64     `json:"id"`
	OrderID           int64     `json:"order_id"`
	ProductID         string    `json:"product_id"`
	Quantity          int32     `json:"quantity"`
	DailyRateSnapshot int64     `json:"daily_rate_snapshot_cents"`
	RentalDays        int32     `json:"rental_days"`
	SubtotalCents     int64     `json:"subtotal_cents"`
	CreatedAt         time.Time `json:"created_at"`
}

type HistoryStatus string

const (
	HistoryStatusConfirmed HistoryStatus = "CONFIRMED"
	HistoryStatusReturned  HistoryStatus = "RETURNED"
	HistoryStatusDisputed  HistoryStatus = "DISPUTED"
)

// CanTransitionTo reports whether an order history line may move from s to next.
func (s HistoryStatus) CanTransitionTo(next HistoryStatus) bool {
	switch s {
	case HistoryStatusConfirmed:
		return next == HistoryStatusReturned || next == HistoryStatusDisputed
	case HistoryStatusDisputed:
		return next == HistoryStatusReturned || next == HistoryStatusConfirmed
	default:
		return false
	}
}

// OrderHistory is a denormalized snapshot of one order line. It does not
// reference live product rows so it survives renames and deletions.
type OrderHistory struct {
	ID                  string        `json:"id"`
	OrderID             int64         `json:"order_id"`
	OrderItemID         int64         `json:"order_item_id"`
	MemberID            int32         `json:"member_id"`
	PropertyID          int32         `json:"property_id"`
	ProductID           string        `json:"product_id"`
	ProductNameSnapshot string        `json:"product_name_snapshot"`
	DailyRateSnapshot   int64         `json:"daily_rate_snapshot_cents"`
	Quantity            int32         `json:"quantity"`
	RentalStart         time.Time     `json:"rental_start"`
	RentalEnd           time.Time     `json:"rental_end"`
	SubtotalCents       int64         `json:"subtotal_cents"`
	Status              HistoryStatus `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type OrderOverview struct {
	Ongoing   []OrderHistory `json:"ongoing"`
	Completed []OrderHistory `json:"completed"`
}
