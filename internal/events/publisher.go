package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// OrderPlaced is the event emitted after a checkout commits. Publishing is
// best effort; the order stands whether or not downstream hears about it.
type OrderPlaced struct {
	OrderID   int64           `json:"order_id"`
	SessionID string          `json:"session_id"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	PlacedAt  time.Time       `json:"placed_at"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
}

// messageWriter is the slice of kafka.Writer we use, extracted so tests
// can fail writes on demand.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes order events to a topic behind a circuit breaker:
// when the broker is down, checkouts keep completing and publishes fail
// fast instead of stalling on broker timeouts.
type KafkaPublisher struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[any]
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w)
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "order-events",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("publisher breaker state change")
		},
	})
	return &KafkaPublisher{writer: w, breaker: breaker}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
			Value: payload,
		})
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// NopPublisher discards events, for tests and broker-less deployments.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error {
	return nil
}
