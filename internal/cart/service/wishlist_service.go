package service

import (
	"context"
	"errors"

	catalogdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/session"
)

type WishlistService struct {
	sessions session.Store
	catalog  Catalog
}

func NewWishlistService(sessions session.Store, catalog Catalog) *WishlistService {
	return &WishlistService{
		sessions: sessions,
		catalog:  catalog,
	}
}

func (s *WishlistService) Add(ctx context.Context, sessionID string, productID int64) error {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Wishlist.Add(productID)
		return nil
	})
}

func (s *WishlistService) Remove(ctx context.Context, sessionID string, productID int64) error {
	return s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Wishlist.Remove(productID)
		return nil
	})
}

// MoveToCart transfers one unit from wishlist to cart. The wishlist entry
// is removed first, unconditionally: a product that no longer resolves
// still leaves the wishlist before the not-found comes back, so the two
// stores never disagree about it.
func (s *WishlistService) MoveToCart(ctx context.Context, sessionID string, productID int64) error {
	if err := s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Wishlist.Remove(productID)
		return nil
	}); err != nil {
		return err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}

	return s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Cart.Add(productID, 1)
		return nil
	})
}

// View resolves the wishlist against the catalog, dropping stale ids.
func (s *WishlistService) View(ctx context.Context, sessionID string) ([]*catalogdomain.Product, error) {
	var ids []int64
	err := s.sessions.View(ctx, sessionID, func(st *session.State) error {
		ids = append(ids, st.Wishlist.ProductIDs...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	products := make([]*catalogdomain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.catalog.GetProduct(ctx, id)
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
