package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func testProduct() *domain.Product {
	sale := decimal.RequireFromString("199.00")
	return &domain.Product{
		ID:            1,
		Name:          "Turmeric Powder",
		Slug:          "turmeric-powder",
		StockQuantity: 120,
		MRP:           decimal.RequireFromString("249.00"),
		SalePrice:     &sale,
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	product := testProduct()

	productJSON, _ := json.Marshal(product)
	mr.Set(cacheKey(product.ID), string(productJSON))

	result, err := cache.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, result.ID)
	assert.Equal(t, "Turmeric Powder", result.Name)
	assert.True(t, result.EffectivePrice().Equal(decimal.RequireFromString("199.00")))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey(7), "{not json")

	result, err := cache.Get(context.Background(), 7)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_Then_Get(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	product := testProduct()

	require.NoError(t, cache.Set(ctx, product))

	result, err := cache.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.StockQuantity, result.StockQuantity)
	assert.True(t, result.MRP.Equal(product.MRP))
}

func TestDelete(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	product := testProduct()

	require.NoError(t, cache.Set(ctx, product))
	require.NoError(t, cache.Delete(ctx, product.ID))

	_, err := cache.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
