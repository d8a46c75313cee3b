package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports the first line whose demand exceeded what
// was on hand. The whole commit aborted; no stock moved.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Only %d available.", e.Name, e.Available)
}

// Line is one product/quantity pair of an order attempt.
type Line struct {
	ProductID int64
	Quantity  int
}

// StockLedger performs the check-and-decrement for all lines of one order.
// Commit is all-or-nothing: either every line's stock is decremented, or
// none is. Concurrent commits never drive any product's stock negative.
type StockLedger interface {
	Commit(ctx context.Context, lines []Line) error
}

// TimedLedger reports commit latency to an observer.
type TimedLedger struct {
	Inner   StockLedger
	Observe func(elapsedMS float64)
}

func (t *TimedLedger) Commit(ctx context.Context, lines []Line) error {
	start := time.Now()
	err := t.Inner.Commit(ctx, lines)
	t.Observe(float64(time.Since(start).Milliseconds()))
	return err
}
