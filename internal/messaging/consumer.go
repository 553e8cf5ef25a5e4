package messaging

import (
	"context"
	"fmt"
	"io"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc applies one replication event. A nil return acknowledges the
// message; an error requeues it until the broker's delivery limit routes it
// to the dead-letter queue.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer is the event inbox's transport: one channel and one goroutine
// per subscribed queue, acknowledging only after a successful local apply.
type Consumer struct {
	conn     *amqp.Connection
	logger   *log.Logger
	handlers map[string]HandlerFunc
}

func NewConsumer(conn *amqp.Connection, logger *log.Logger) *Consumer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Consumer{
		conn:     conn,
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers the handler for a queue. Must be called before Start.
func (c *Consumer) Handle(queue string, h HandlerFunc) {
	c.handlers[queue] = h
}

// Start subscribes to every registered queue. It returns after the
// subscriptions are set up; consumption stops when ctx is cancelled or the
// connection closes.
func (c *Consumer) Start(ctx context.Context) error {
	for queue, handler := range c.handlers {
		ch, err := c.conn.Channel()
		if err != nil {
			return fmt.Errorf("open channel for %s: %w", queue, err)
		}
		if err := ch.Qos(1, 0, false); err != nil {
			ch.Close()
			return fmt.Errorf("set qos for %s: %w", queue, err)
		}
		deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			ch.Close()
			return fmt.Errorf("consume %s: %w", queue, err)
		}
		go c.run(ctx, queue, ch, deliveries, handler)
	}
	return nil
}

func (c *Consumer) run(ctx context.Context, queue string, ch *amqp.Channel, deliveries <-chan amqp.Delivery, handler HandlerFunc) {
	defer ch.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Printf("consumer: %s channel closed", queue)
				return
			}
			if err := handler(ctx, d.Body); err != nil {
				c.logger.Printf("consumer: %s apply failed redelivered=%v error=%v", queue, d.Redelivered, err)
				if err := d.Nack(false, true); err != nil {
					c.logger.Printf("consumer: %s nack error=%v", queue, err)
				}
				continue
			}
			if err := d.Ack(false); err != nil {
				c.logger.Printf("consumer: %s ack error=%v", queue, err)
			}
		}
	}
}
