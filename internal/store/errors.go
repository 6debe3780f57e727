package store

import "errors"

// Error taxonomy surfaced by the stores. Callers must branch with errors.Is
// rather than relying on propagation; ownership mismatches are deliberately
// reported as ErrNotFound so a caller can never confirm the existence of
// another user's rows.
var (
	// ErrNotFound is returned on any lookup miss, including rows that exist
	// but belong to a different user.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateIdentity is returned when an email address or product name
	// collides with an existing row.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrInsufficientStock is returned when a requested quantity exceeds the
	// live stock counter. The operation that reports it has made no change.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidSize is returned when a sized product is addressed without a
	// valid small/medium/large tag.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidQuantity is returned when a line quantity below one is
	// requested.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidShipping is returned for an unknown shipping option code.
	ErrInvalidShipping = errors.New("invalid shipping option")

	// ErrEmptyOrder is returned when checkout is attempted with no open
	// order or an open order with no lines.
	ErrEmptyOrder = errors.New("nothing to checkout")

	// ErrNoAddress is returned when checkout is attempted before a shipping
	// address has been bound to the order.
	ErrNoAddress = errors.New("order has no shipping address")

	// ErrPaymentFailed wraps gateway failures. The order is left open and
	// stock untouched so the user may retry.
	ErrPaymentFailed = errors.New("payment failed")
)
