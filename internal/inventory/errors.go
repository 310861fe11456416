package inventory

import (
	"errors"
	"fmt"
)

// Sentinel errors. The HTTP layer maps these to status codes; NotFound and
// InvalidInput indicate a client/data bug, not a transient stock condition.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrSerialNotFound  = errors.New("serial unit not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// StockInsufficientError reports a failed availability check. The whole
// reservation aborts; no counter was touched.
type StockInsufficientError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("stock insufficient for %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// SerialUnavailableError names the first serial code that blocked an
// all-or-nothing batch reservation.
type SerialUnavailableError struct {
	Code   string
	Status SerialStatus
}

func (e *SerialUnavailableError) Error() string {
	return fmt.Sprintf("serial %s not available (status %s)", e.Code, e.Status)
}
