package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange and queue names shared with the owning services.
const (
	ExchangeProduct     = "product"
	ExchangeStore       = "store"
	ExchangeOrderClient = "order-client"
	ExchangeOrderStore  = "order-store"

	QueueProductCreated  = "product-created"
	QueueProductUpdated  = "product-updated"
	QueueProductDeleted  = "product-deleted"
	QueueStoreCreated    = "store-created"
	QueueStoreUpdated    = "store-updated"
	QueueStoreDeleted    = "store-deleted"
	QueueOrderDispatched = "order-client-updated-dispatched"

	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyStoreCreated    = "store.created"
	KeyStoreUpdated    = "store.updated"
	KeyStoreDeleted    = "store.deleted"
	KeyOrderDispatched = "order.client.updated.dispatched"
	KeyOrderCreated    = "order.store.created"
	KeyOrderDelivered  = "order.store.updated.delivered"
)

// deliveryLimit bounds redeliveries before a message is dead-lettered.
const deliveryLimit = 5

// Connect dials the broker.
func Connect(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	return conn, nil
}

// DeclareTopology declares the direct exchanges, the durable work queues
// with their per-domain dead-letter routing, and the dead-letter queues
// themselves. Declarations are idempotent; every binary may call this on
// startup.
func DeclareTopology(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	for _, exchange := range []string{ExchangeProduct, ExchangeStore, ExchangeOrderClient, ExchangeOrderStore} {
		if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
	}

	bindings := []struct {
		queue    string
		exchange string
		key      string
	}{
		{QueueProductCreated, ExchangeProduct, KeyProductCreated},
		{QueueProductUpdated, ExchangeProduct, KeyProductUpdated},
		{QueueProductDeleted, ExchangeProduct, KeyProductDeleted},
		{QueueStoreCreated, ExchangeStore, KeyStoreCreated},
		{QueueStoreUpdated, ExchangeStore, KeyStoreUpdated},
		{QueueStoreDeleted, ExchangeStore, KeyStoreDeleted},
		{QueueOrderDispatched, ExchangeOrderClient, KeyOrderDispatched},
	}
	for _, b := range bindings {
		if err := declareWorkQueue(ch, b.queue, b.exchange, b.key); err != nil {
			return err
		}
	}

	deadLetters := []struct {
		queue    string
		exchange string
	}{
		{"product-dead-letter", ExchangeProduct},
		{"store-dead-letter", ExchangeStore},
		{"order-client-dead-letter", ExchangeOrderClient},
	}
	for _, d := range deadLetters {
		if err := declareDeadLetterQueue(ch, d.queue, d.exchange); err != nil {
			return err
		}
	}

	return nil
}

func declareWorkQueue(ch *amqp.Channel, queue, exchange, key string) error {
	args := amqp.Table{
		"x-queue-type":              "quorum",
		"x-delivery-limit":          int32(deliveryLimit),
		"x-dead-letter-exchange":    exchange,
		"x-dead-letter-routing-key": deadLetterKey(exchange),
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}
	return nil
}

func declareDeadLetterQueue(ch *amqp.Channel, queue, exchange string) error {
	if _, err := ch.QueueDeclare(queue, true, true, false, false, nil); err != nil {
		return fmt.Errorf("declare dead-letter queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, deadLetterKey(exchange), exchange, false, nil); err != nil {
		return fmt.Errorf("bind dead-letter queue %s: %w", queue, err)
	}
	return nil
}

func deadLetterKey(exchange string) string {
	if exchange == ExchangeOrderClient {
		return "order.client.deadLetter"
	}
	return exchange + ".deadLetter"
}
