package cache

import (
	"context"
	"errors"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
)

type ProductCache interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

var ErrCacheMiss = errors.New("cache miss")
