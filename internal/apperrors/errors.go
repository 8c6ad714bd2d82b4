package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock is returned when a decrement exceeds the current
	// bucket quantity. The operation is rejected whole, never clamped.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrProductNotFound is returned when a product lookup misses.
	ErrProductNotFound = errors.New("product not found")

	// ErrLocationNotFound is returned when a location lookup misses.
	ErrLocationNotFound = errors.New("location not found")

	// ErrTransferNotFound is returned when a transfer lookup misses.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrTransferItemNotFound is returned when a transfer has no line for the
	// referenced product.
	ErrTransferItemNotFound = errors.New("transfer item not found")

	// ErrInvalidState is returned when a transition is attempted from a state
	// that forbids it.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidReceivedQuantity is returned when a receive exceeds the
	// outstanding shipped quantity of a line.
	ErrInvalidReceivedQuantity = errors.New("received quantity exceeds outstanding shipped quantity")

	// ErrDuplicateProduct is returned when an operation names the same
	// product on more than one line. Lines are keyed by product, so a
	// duplicate would be validated against a stale view of its sibling.
	ErrDuplicateProduct = errors.New("duplicate product line")

	// ErrInvalidAdjustmentType is returned for an unknown adjustment type.
	ErrInvalidAdjustmentType = errors.New("invalid adjustment type")

	// ErrInvalidCondition is returned for an unknown item condition on receipt.
	ErrInvalidCondition = errors.New("invalid item condition")

	// ErrReasonRequired is returned when a cancellation carries no reason.
	ErrReasonRequired = errors.New("cancellation reason is required")

	// ErrUnauthorized is returned when the principal's role does not permit
	// the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrLockBusy is returned when the stock-key lock cannot be acquired.
	// Safe to retry; nothing was applied.
	ErrLockBusy = errors.New("stock is busy, retry later")
)

// InsufficientStock wraps ErrInsufficientStock with the offending key so
// multi-line operations can report which line failed.
func InsufficientStock(productID, locationID, bucket string, requested, available int64) error {
	return fmt.Errorf("%w: product %s at location %s bucket %s: requested %d, available %d",
		ErrInsufficientStock, productID, locationID, bucket, requested, available)
}

// InvalidTransition wraps ErrInvalidState with the attempted transition.
func InvalidTransition(transferNumber, from, action string) error {
	return fmt.Errorf("%w: transfer %s is %s, cannot %s", ErrInvalidState, transferNumber, from, action)
}
