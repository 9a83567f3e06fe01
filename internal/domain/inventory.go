package domain

import "time"

type InventoryEventType string

const (
	InventoryEventReserve InventoryEventType = "RESERVE"
	InventoryEventRelease InventoryEventType = "RELEASE"
)

type InventorySourceType string

const (
	InventorySourceOrder        InventorySourceType = "ORDER"
	InventorySourceOrderHistory InventorySourceType = "ORDER_HISTORY"
)

type InventoryRecord struct {
	ProductID         string    `json:"product_id"`
	AvailableQuantity int32     `json:"available_quantity"`
	RentedQuantity    int32     `json:"rented_quantity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r *InventoryRecord) TotalQuantity() int32 {
	return r.AvailableQuantity + r.RentedQuantity
}

// InventoryEvent is an append-only ledger row. Quantity is signed: reservations
// are negative, releases positive.
type InventoryEvent struct {
	ID         string              `json:"id"`
	ProductID  string              `json:"product_id"`
	Quantity   int32               `json:"quantity"`
	EventType  InventoryEventType  `json:"event_type"`
	SourceType InventorySourceType `json:"source_type"`
	SourceID   string              `json:"source_id"`
	OccurredAt time.Time           `json:"occurred_at"`
	RecordedAt time.Time           `json:"recorded_at"`
}

type ReconciliationReport struct {
	ProductID  string `json:"product_id"`
	Available  int32  `json:"available"`
	Rented     int32  `json:"rented"`
	EventSum   int64  `json:"event_sum"`
	Consistent bool   `json:"consistent"`
}
