package messaging

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"netbull-client-api/internal/domain"
)

// Publisher emits order lifecycle events for the fulfillment service.
// Publishing is fire-and-forget after the local transaction has committed:
// a failure is logged and the local state stands. There is no durable
// outbox record, so a crash between commit and publish loses the event.
type Publisher struct {
	ch     *amqp.Channel
	logger *log.Logger
}

func NewPublisher(conn *amqp.Connection, logger *log.Logger) (*Publisher, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, logger: logger}, nil
}

// OrderCreated notifies the fulfillment service of a new order.
func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, ExchangeOrderStore, KeyOrderCreated, order)
}

// OrderDelivered notifies the fulfillment service of a confirmed delivery.
func (p *Publisher) OrderDelivered(ctx context.Context, order *domain.Order) {
	p.publish(ctx, ExchangeOrderStore, KeyOrderDelivered, order)
}

func (p *Publisher) publish(ctx context.Context, exchange, key string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Printf("publisher: marshal key=%s error=%v", key, err)
		return
	}
	err = p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.logger.Printf("publisher: publish key=%s error=%v", key, err)
		return
	}
	p.logger.Printf("publisher: published key=%s bytes=%d", key, len(body))
}

// Close releases the channel.
func (p *Publisher) Close() error {
	return p.ch.Close()
}
