package domain

import (
	"fmt"
	"time"
)

type CheckoutState string

const (
	CheckoutStateCartOpen   CheckoutState = "CART_OPEN"
	CheckoutStateValidating CheckoutState = "VALIDATING"
	CheckoutStateCommitting CheckoutState = "COMMITTING"
	CheckoutStateClosed     CheckoutState = "CLOSED"
	CheckoutStateFailed     CheckoutState = "FAILED"
)

// CheckoutRequest identifies the cart to check out. CartID is optional; when
// set it must name the member's cart for the property.
type CheckoutRequest struct {
	MemberID         int32  `json:"member_id"`
	PropertyID       int32  `json:"property_id"`
	CartID           string `json:"cart_id,omitempty"`
	PaymentConfirmed bool   `json:"payment_confirmed"`
}

type CheckoutResult struct {
	Order       *Order         `json:"order"`
	History     []OrderHistory `json:"history"`
	State       CheckoutState  `json:"state"`
	Attempts    int            `json:"attempts"`
	CompletedAt time.Time      `json:"completed_at"`
}

// CheckoutError is returned for every failed checkout. Stage is the state the
// workflow was in when it moved to FAILED.
type CheckoutError struct {
	Stage CheckoutState
	Err   error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed while %s: %v", e.Stage, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}
