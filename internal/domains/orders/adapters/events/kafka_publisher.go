package events

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-gin-shop-api/internal/platform/kafka"
)

// DefaultTopic receives order lifecycle events when no topic is configured.
const DefaultTopic = "orders.events"

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// Envelope is the wire shape of an order lifecycle event.
type Envelope struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	OwnerID    int64     `json:"owner_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaPublisher writes order events keyed by order id.
type KafkaPublisher struct {
	writer platformkafka.MessageWriter
	newID  func() string
}

// NewKafkaPublisher wraps a writer, usually from platformkafka.Client.NewWriter.
func NewKafkaPublisher(writer platformkafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, newID: uuid.NewString}
}

func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChanged) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	envelope := Envelope{
		EventID:    p.newID(),
		Type:       event.EventType(),
		OrderID:    event.OrderID,
		OwnerID:    event.OwnerID,
		From:       string(event.From),
		To:         string(event.To),
		OccurredAt: event.OccurredAt.UTC(),
	}
	return platformkafka.PublishJSON(ctx, p.writer, strconv.FormatInt(event.OrderID, 10), envelope)
}
