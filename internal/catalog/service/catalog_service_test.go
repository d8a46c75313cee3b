package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/cache"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/repository"
)

type mockRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	calls    int
}

func (m *mockRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockRepo) GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		if p, err := m.GetProduct(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) GetAllProducts(context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepo) Close() error               { return nil }
func (m *mockRepo) RunMigrations(string) error { return nil }

func (m *mockRepo) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mapCache is an in-process ProductCache; sets signals every write so
// tests can wait out the service's async cache fill.
type mapCache struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	sets     chan int64
}

func newMapCache() *mapCache {
	return &mapCache{
		products: make(map[int64]*domain.Product),
		sets:     make(chan int64, 16),
	}
}

func (c *mapCache) Get(_ context.Context, id int64) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *mapCache) Set(_ context.Context, p *domain.Product) error {
	c.mu.Lock()
	c.products[p.ID] = p
	c.mu.Unlock()
	c.sets <- p.ID
	return nil
}

func (c *mapCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
	return nil
}

func (c *mapCache) waitForSet(t *testing.T) {
	t.Helper()
	select {
	case <-c.sets:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cache fill")
	}
}

func testProduct(id int64, name string) *domain.Product {
	return &domain.Product{ID: id, Name: name, StockQuantity: 5, MRP: decimal.RequireFromString("249.00")}
}

func TestGetProduct_FillsCacheOnMiss(t *testing.T) {
	repo := &mockRepo{products: map[int64]*domain.Product{1: testProduct(1, "Turmeric Powder")}}
	c := newMapCache()
	svc := NewCatalogService(repo, c)

	p, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Turmeric Powder", p.Name)
	assert.Equal(t, 1, repo.callCount())

	c.waitForSet(t)

	// second read is served from the cache
	_, err = svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.callCount())
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := &mockRepo{products: map[int64]*domain.Product{}}
	svc := NewCatalogService(repo, newMapCache())

	_, err := svc.GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProducts_SkipsMissing(t *testing.T) {
	repo := &mockRepo{products: map[int64]*domain.Product{
		1: testProduct(1, "A"),
		3: testProduct(3, "C"),
	}}
	c := newMapCache()
	svc := NewCatalogService(repo, c)

	products, err := svc.GetProducts(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(3), products[1].ID)

	c.waitForSet(t)
	c.waitForSet(t)
}

func TestInvalidate_DropsCachedSnapshot(t *testing.T) {
	repo := &mockRepo{products: map[int64]*domain.Product{1: testProduct(1, "A")}}
	c := newMapCache()
	svc := NewCatalogService(repo, c)

	_, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	c.waitForSet(t)

	svc.Invalidate(1)

	_, err = svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.callCount())
}
