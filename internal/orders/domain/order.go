package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable record of one completed checkout. Item snapshots
// are frozen at purchase time; later catalog changes never reach back into
// an order.
type Order struct {
	ID          int64           `json:"id"`
	OrderedAt   time.Time       `json:"ordered_at"`
	ArrivalDate time.Time       `json:"arrival_date"`
	Paid        bool            `json:"paid"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItem     `json:"items"`
}

type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
