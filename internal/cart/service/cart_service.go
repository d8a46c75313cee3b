package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/repository"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/session"
)

var ErrProductNotFound = repository.ErrProductNotFound

// Catalog is the slice of the product catalog the cart needs.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]*catalogdomain.Product, error)
}

type CartService struct {
	sessions session.Store
	catalog  Catalog
}

func NewCartService(sessions session.Store, catalog Catalog) *CartService {
	return &CartService{
		sessions: sessions,
		catalog:  catalog,
	}
}

// LineItem is one resolved cart row: the live product snapshot, the
// quantity held and the line total at the current effective price.
type LineItem struct {
	Product   *catalogdomain.Product
	Quantity  int
	LineTotal decimal.Decimal
}

type CartView struct {
	Lines []LineItem
	Total decimal.Decimal
}

type Summary struct {
	CartItemCount     int
	WishlistItemCount int
}

// ParseQuantity turns raw form input into a usable quantity. Anything
// invalid or below one becomes one; adding to a cart never hard-fails on a
// bad quantity field.
func ParseQuantity(raw string) int {
	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 1 {
		return 1
	}
	return qty
}

// Add merges quantity units of the product into the session's cart. The
// product must resolve; unknown ids are reported, not silently stored.
func (s *CartService) Add(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Cart.Add(productID, quantity)
		return nil
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	return s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Cart.Remove(productID)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Cart.Clear()
		return nil
	})
}

// SetSingle replaces the cart with one unit of the product and returns the
// product for the buy-now confirmation view.
func (s *CartService) SetSingle(ctx context.Context, sessionID string, productID int64) (*catalogdomain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	err = s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		st.Cart.SetSingle(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// View resolves every cart line against the catalog. Lines whose product
// no longer resolves are dropped from the view and its total; the stale
// entries stay in the cart but are invisible, matching the soft not-found
// policy.
func (s *CartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	var items []struct {
		productID int64
		quantity  int
	}
	err := s.sessions.View(ctx, sessionID, func(st *session.State) error {
		for _, it := range st.Cart.Items {
			items = append(items, struct {
				productID int64
				quantity  int
			}{it.ProductID, it.Quantity})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := &CartView{Total: decimal.Zero}
	for _, it := range items {
		product, err := s.catalog.GetProduct(ctx, it.productID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lineTotal := product.EffectivePrice().Mul(decimal.NewFromInt(int64(it.quantity)))
		view.Lines = append(view.Lines, LineItem{
			Product:   product,
			Quantity:  it.quantity,
			LineTotal: lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	return view, nil
}

// Summarize reports badge counts for the layout header.
func (s *CartService) Summarize(ctx context.Context, sessionID string) (Summary, error) {
	var sum Summary
	err := s.sessions.View(ctx, sessionID, func(st *session.State) error {
		sum.CartItemCount = st.Cart.Count()
		sum.WishlistItemCount = st.Wishlist.Len()
		return nil
	})
	return sum, err
}
