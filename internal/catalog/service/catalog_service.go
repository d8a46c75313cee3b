package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/cache"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/repository"
)

var ErrProductNotFound = repository.ErrProductNotFound

// CatalogService is the read side of the product catalog: a sqlite
// repository fronted by a short-TTL cache. Stock mutation goes through the
// ledger, never through here.
type CatalogService struct {
	repo  repository.RepoInterface
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.RepoInterface, cache cache.ProductCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Int64("product_id", id).Msg("cache get error")
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(ctx, product); errSet != nil {
				log.Warn().Err(errSet).Int64("product_id", id).Msg("cache set error")
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

// GetProducts resolves a batch of ids, silently skipping those that no
// longer resolve. Result order follows the input order.
func (s *CatalogService) GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *CatalogService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAllProducts(ctx)
}

// Invalidate drops a product's cached snapshot, called after its stock was
// committed so the next view sees the decremented count.
func (s *CatalogService) Invalidate(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Int64("product_id", id).Msg("cache invalidate error")
	}
}
