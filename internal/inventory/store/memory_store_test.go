package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger() *MemoryLedger {
	l := NewMemoryLedger()
	l.SetStock(1, "Turmeric Powder", 5)
	l.SetStock(2, "Garam Masala", 2)
	return l
}

func TestMemoryLedger_Commit_Success(t *testing.T) {
	l := setupLedger()

	err := l.Commit(context.Background(), []Line{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	})
	require.NoError(t, err)

	qty, _ := l.Stock(1)
	assert.Equal(t, 2, qty)
	qty, _ = l.Stock(2)
	assert.Equal(t, 0, qty)
}

func TestMemoryLedger_Commit_AtomicOnShortfall(t *testing.T) {
	l := setupLedger()

	// stock {1:5, 2:2}, demand {1:3, 2:5}: line two fails, line one must
	// not have been applied
	err := l.Commit(context.Background(), []Line{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 5},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.Equal(t, "Garam Masala", stockErr.Name)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, "Insufficient stock for Garam Masala. Only 2 available.", err.Error())

	qty, _ := l.Stock(1)
	assert.Equal(t, 5, qty, "earlier line must be untouched after abort")
	qty, _ = l.Stock(2)
	assert.Equal(t, 2, qty)
}

func TestMemoryLedger_Commit_UnknownProduct(t *testing.T) {
	l := setupLedger()

	err := l.Commit(context.Background(), []Line{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	qty, _ := l.Stock(1)
	assert.Equal(t, 5, qty)
}

func TestMemoryLedger_Commit_ExactStock(t *testing.T) {
	l := setupLedger()

	err := l.Commit(context.Background(), []Line{{ProductID: 2, Quantity: 2}})
	require.NoError(t, err)

	qty, _ := l.Stock(2)
	assert.Equal(t, 0, qty)

	// next unit must be refused
	err = l.Commit(context.Background(), []Line{{ProductID: 2, Quantity: 1}})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
}

func TestMemoryLedger_ConcurrentCommits_NeverOversell(t *testing.T) {
	l := NewMemoryLedger()
	l.SetStock(1, "Green Cardamom", 10)

	// 50 buyers each want 1 unit; exactly 10 succeed
	const buyers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			err := l.Commit(context.Background(), []Line{{ProductID: 1, Quantity: 1}})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	qty, _ := l.Stock(1)
	assert.Equal(t, 0, qty)
}

func TestMemoryLedger_CancelledContext(t *testing.T) {
	l := setupLedger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Commit(ctx, []Line{{ProductID: 1, Quantity: 1}})
	assert.Error(t, err)

	qty, _ := l.Stock(1)
	assert.Equal(t, 5, qty)
}
