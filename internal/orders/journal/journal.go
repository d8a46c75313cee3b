package journal

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/orders/domain"
	"github.com/mariattjoseph2016-code/Masala-storys/internal/session"
)

var ErrOrderNotFound = errors.New("order not found")

// ArrivalLeadTime is the promised delivery window stamped on every order.
const ArrivalLeadTime = 7 * 24 * time.Hour

// ItemInput is a resolved cart line at checkout time; the journal freezes
// it into the order snapshot.
type ItemInput struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Journal materializes completed checkouts into per-session order history.
// Ids come from an atomic counter seeded from the wall clock at startup,
// so they are unique and monotonic even under concurrent issuance.
type Journal struct {
	sessions session.Store
	lastID   atomic.Int64
}

func NewJournal(sessions session.Store) *Journal {
	j := &Journal{sessions: sessions}
	j.lastID.Store(time.Now().Unix())
	return j
}

// NextID issues a fresh order id.
func (j *Journal) NextID() int64 {
	return j.lastID.Add(1)
}

// BuildOrder freezes item snapshots into an immutable order. The caller
// supplies the pre-checkout cart total; BuildOrder trusts but verifies it
// against the line sums so drift cannot slip in.
func (j *Journal) BuildOrder(items []ItemInput, total decimal.Decimal, now time.Time) domain.Order {
	orderItems := make([]domain.OrderItem, 0, len(items))
	sum := decimal.Zero
	for _, in := range items {
		lineTotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		sum = sum.Add(lineTotal)
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: in.ProductID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			LineTotal: lineTotal,
		})
	}
	if !sum.Equal(total) {
		total = sum
	}

	return domain.Order{
		ID:          j.NextID(),
		OrderedAt:   now,
		ArrivalDate: now.Add(ArrivalLeadTime),
		Paid:        true,
		Total:       total,
		Items:       orderItems,
	}
}

// Prepend puts order at the head of the session state's history. It is
// meant to run inside the same session Update as the cart clear so the two
// commit together.
func Prepend(st *session.State, order domain.Order) {
	st.Orders = append([]domain.Order{order}, st.Orders...)
}

// List returns the session's order history, newest first.
func (j *Journal) List(ctx context.Context, sessionID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := j.sessions.View(ctx, sessionID, func(st *session.State) error {
		orders = append(orders, st.Orders...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID finds one order, or ErrOrderNotFound.
func (j *Journal) GetByID(ctx context.Context, sessionID string, orderID int64) (*domain.Order, error) {
	var found *domain.Order
	err := j.sessions.View(ctx, sessionID, func(st *session.State) error {
		for i := range st.Orders {
			if st.Orders[i].ID == orderID {
				o := st.Orders[i]
				found = &o
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrOrderNotFound
	}
	return found, nil
}
