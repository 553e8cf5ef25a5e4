package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found. It is also
	// returned for entities owned by another client, so callers cannot tell
	// the two cases apart.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAmbiguousAddress is returned when an order names no address and the
	// client has more than one registered.
	ErrAmbiguousAddress = errors.New("client has more than one registered address, specify the delivery address on the order")
	// ErrDuplicateProduct is returned when an order repeats a product code.
	ErrDuplicateProduct = errors.New("order contains repeated products")
)

// ValidationError carries the full set of field violations, not just the
// first one found.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ConflictError signals a business-key collision (duplicate email or CPF).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InsufficientStockError reports a reservation that exceeds the mirrored
// availability of a product.
type InsufficientStockError struct {
	Code      string
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product code %s, only %d available", e.Code, e.Available)
}

// InvalidTransitionError reports an illegal order state change.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}
