package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrNoActiveContract        = errors.New("no active rental contract")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrCartAlreadyOrdered      = errors.New("cart has already been ordered")
	ErrPaymentNotConfirmed     = errors.New("payment has not been confirmed")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidRentalDays       = errors.New("rental days must not be negative")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrProductUnavailable      = errors.New("product unavailable")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrStorageConflict         = errors.New("storage conflict")
	ErrStorageFailure          = errors.New("storage failure")
)

// StockError reports a reservation or release that the inventory row cannot cover.
type StockError struct {
	ProductID string
	Requested int32
	Available int32
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductError reports a product that is missing from the catalog or delisted.
type ProductError struct {
	ProductID string
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("product %s is unavailable", e.ProductID)
}

func (e *ProductError) Is(target error) bool {
	return target == ErrProductUnavailable
}

// IsRetryable reports whether err is a lock or version conflict that may
// succeed when the whole unit of work is retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageConflict)
}
