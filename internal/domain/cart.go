package domain

import "time"

type CartStatus string

const (
	CartStatusInCart  CartStatus = "IN_CART"
	CartStatusActive  CartStatus = "ACTIVE"
	CartStatusOrdered CartStatus = "ORDERED"
)

type Cart struct {
	ID         string     `json:"id"`
	MemberID   int32      `json:"member_id"`
	PropertyID int32      `json:"property_id"`
	Status     CartStatus `json:"status"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsOpen reports whether the cart can still be modified or checked out.
func (c *Cart) IsOpen() bool {
	return c.Status != CartStatusOrdered
}

type CartItem struct {
	ID         string    `json:"id"`
	CartID     string    `json:"cart_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int32     `json:"quantity"`
	RentalDays int32     `json:"rental_days"`
	CreatedAt  time.Time `json:"created_at"`
}

// CartLine is a cart item joined with live catalog and stock data for display.
type CartLine struct {
	CartItem
	ProductName      string `json:"product_name"`
	DailyRateCents   int64  `json:"daily_rate_cents"`
	EstimateCents    int64  `json:"estimate_cents"`
	AvailableStock   int32  `json:"available_stock"`
	ProductAvailable bool   `json:"product_available"`
}

type CartSummary struct {
	Cart           *Cart      `json:"cart"`
	Lines          []CartLine `json:"lines"`
	EstimatedCents int64      `json:"estimated_cents"`
	HasContract    bool       `json:"has_contract"`
	ContractEnd    *time.Time `json:"contract_end,omitempty"`
	DaysLeft       int32      `json:"days_left"`
}
