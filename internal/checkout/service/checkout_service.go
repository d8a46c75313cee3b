package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/repository"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/checkout"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/events"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/inventory/store"
	ordersdomain "github.com/mariattjoseph2016-code/Masala-storys/internal/orders/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/orders/journal"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/session"
)

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	ErrNoAddress = errors.New("no delivery address on file")
)

// ValidationError is a rejected payment form: the request succeeds in
// rendering, only the message surfaces.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

type AddressChecker interface {
	HasAddress(ctx context.Context, userID string) (bool, error)
}

// CacheInvalidator drops stale product snapshots after their stock moved.
type CacheInvalidator interface {
	Invalidate(id int64)
}

// CheckoutService runs the payment pipeline: address precondition, card
// validation, atomic stock commit, order journaling, cart clear. A stock
// failure aborts before any order exists and leaves the cart intact.
type CheckoutService struct {
	sessions    session.Store
	catalog     Catalog
	ledger      store.StockLedger
	journal     *journal.Journal
	addresses   AddressChecker
	publisher   events.Publisher
	invalidator CacheInvalidator
	now         func() time.Time
}

func NewCheckoutService(
	sessions session.Store,
	catalog Catalog,
	ledger store.StockLedger,
	j *journal.Journal,
	addresses AddressChecker,
	publisher events.Publisher,
) *CheckoutService {
	return &CheckoutService{
		sessions:  sessions,
		catalog:   catalog,
		ledger:    ledger,
		journal:   j,
		addresses: addresses,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithInvalidator attaches a product-cache invalidator.
func (s *CheckoutService) WithInvalidator(inv CacheInvalidator) *CheckoutService {
	s.invalidator = inv
	return s
}

// WithClock overrides the time source, for tests.
func (s *CheckoutService) WithClock(now func() time.Time) *CheckoutService {
	s.now = now
	return s
}

// resolvedLine is a cart line resolved to a live snapshot at submit time.
type resolvedLine struct {
	product  *catalogdomain.Product
	quantity int
}

// PaymentTotal checks the address precondition and returns the amount the
// payment form shows.
func (s *CheckoutService) PaymentTotal(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	has, err := s.addresses.HasAddress(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	if !has {
		return decimal.Zero, ErrNoAddress
	}

	total := decimal.Zero
	err = s.sessions.View(ctx, sessionID, func(st *session.State) error {
		lines, err := s.resolve(ctx, st)
		if err != nil {
			return err
		}
		for _, line := range lines {
			total = total.Add(line.product.EffectivePrice().Mul(decimal.NewFromInt(int64(line.quantity))))
		}
		return nil
	})
	return total, err
}

// Submit runs the whole checkout under the session's lock so an
// overlapping request cannot mutate the cart mid-flight. On success the
// new order heads the history and the cart is empty; on any failure the
// cart is exactly as it was.
func (s *CheckoutService) Submit(ctx context.Context, sessionID, cardNumber, expiry, cvv string) (*ordersdomain.Order, error) {
	has, err := s.addresses.HasAddress(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNoAddress
	}

	if res := checkout.Validate(cardNumber, expiry, cvv, s.now()); !res.OK {
		return nil, &ValidationError{Message: res.Message}
	}

	var order ordersdomain.Order
	err = s.sessions.Update(ctx, sessionID, func(st *session.State) error {
		lines, err := s.resolve(ctx, st)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		ledgerLines := make([]store.Line, 0, len(lines))
		items := make([]journal.ItemInput, 0, len(lines))
		total := decimal.Zero
		for _, line := range lines {
			price := line.product.EffectivePrice()
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.quantity))))
			ledgerLines = append(ledgerLines, store.Line{
				ProductID: line.product.ID,
				Quantity:  line.quantity,
			})
			items = append(items, journal.ItemInput{
				ProductID: line.product.ID,
				Name:      line.product.Name,
				Quantity:  line.quantity,
				UnitPrice: price,
			})
		}

		// All-or-nothing across every line; a shortfall leaves the
		// cart untouched for the shopper to adjust and retry.
		if err := s.ledger.Commit(ctx, ledgerLines); err != nil {
			return err
		}

		order = s.journal.BuildOrder(items, total, s.now())
		journal.Prepend(st, order)
		st.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		for _, item := range order.Items {
			s.invalidator.Invalidate(item.ProductID)
		}
	}

	event := events.OrderPlaced{
		OrderID:   order.ID,
		SessionID: sessionID,
		Total:     order.Total,
		ItemCount: len(order.Items),
		PlacedAt:  order.OrderedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		log.Warn().Err(err).Int64("order_id", order.ID).Msg("order event publish failed")
	}

	return &order, nil
}

// resolve maps the cart to live snapshots, silently dropping entries whose
// product no longer exists in the catalog.
func (s *CheckoutService) resolve(ctx context.Context, st *session.State) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(st.Cart.Items))
	for _, item := range st.Cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, resolvedLine{product: product, quantity: item.Quantity})
	}
	return lines, nil
}
