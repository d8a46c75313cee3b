package session

import (
	"context"

	cartdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/cart/domain"
	ordersdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/orders/domain"
)

// State is everything one session owns: its cart, its wishlist and its
// order history (newest first). No other session can see it.
type State struct {
	Cart     cartdomain.Cart
	Wishlist cartdomain.Wishlist
	Orders   []ordersdomain.Order
}

// Store keys session state by session id and serializes access per
// session: two overlapping requests for the same session never interleave
// inside fn. Different sessions proceed in parallel.
type Store interface {
	// Update runs fn with exclusive access to the session's state.
	// Mutations made by fn are retained; fn's error is returned as-is.
	Update(ctx context.Context, sessionID string, fn func(*State) error) error

	// View runs fn under the same per-session lock as Update so a reader
	// never observes a half-applied write. fn must not mutate the state.
	View(ctx context.Context, sessionID string, fn func(*State) error) error

	// Clear drops the whole session.
	Clear(ctx context.Context, sessionID string) error
}
