package store

import (
	"context"
	"sync"
)

// MemoryLedger implements StockLedger with in-memory storage. A single
// mutex covers the whole commit, so the validate-all / apply-all phases
// run without interleaving.
type MemoryLedger struct {
	mu     sync.RWMutex
	stocks map[int64]*stockRecord
}

type stockRecord struct {
	name     string
	quantity int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		stocks: make(map[int64]*stockRecord),
	}
}

// SetStock sets the on-hand quantity for a product (initialization).
func (l *MemoryLedger) SetStock(productID int64, name string, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stocks[productID] = &stockRecord{name: name, quantity: quantity}
}

// Stock returns the current on-hand quantity.
func (l *MemoryLedger) Stock(productID int64) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.stocks[productID]
	if !ok {
		return 0, false
	}
	return rec.quantity, true
}

func (l *MemoryLedger) Commit(ctx context.Context, lines []Line) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// First pass: validate every line before touching anything
	for _, line := range lines {
		rec, exists := l.stocks[line.ProductID]
		if !exists {
			return ErrProductNotFound
		}
		if rec.quantity < line.Quantity {
			return &InsufficientStockError{
				ProductID: line.ProductID,
				Name:      rec.name,
				Available: rec.quantity,
			}
		}
	}

	// Second pass: apply all decrements
	for _, line := range lines {
		l.stocks[line.ProductID].quantity -= line.Quantity
	}

	return nil
}
