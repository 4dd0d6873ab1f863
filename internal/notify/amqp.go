package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the fanout exchange changes are published to.
const DefaultExchange = "order_changes"

const publishTimeout = 5 * time.Second

// amqpChannel is the subset of *amqp.Channel the sink uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink forwards changes to a RabbitMQ fanout exchange so that other
// processes (dashboards on other instances, audit consumers) can follow them.
type AMQPSink struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
}

// DialAMQP connects to RabbitMQ and declares a durable fanout exchange.
func DialAMQP(url, exchange string) (*AMQPSink, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPSink{conn: conn, ch: ch, exchange: exchange}, nil
}

// Handle publishes c as a persistent JSON message. Intended as a Notifier subscriber.
func (s *AMQPSink) Handle(c Change) {
	body, err := json.Marshal(c)
	if err != nil {
		log.Printf("ERROR: amqp sink: marshal change: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = s.ch.PublishWithContext(ctx, s.exchange, c.Table, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    c.OrderID.String(),
		Type:         c.Table + "." + c.Kind,
		Timestamp:    c.At,
		Body:         body,
	})
	if err != nil {
		log.Printf("ERROR: amqp sink: publish %s/%s for order %s: %v", c.Table, c.Kind, c.OrderID, err)
	}
}

// Close closes the channel and the connection.
func (s *AMQPSink) Close() error {
	if s.ch != nil {
		if err := s.ch.Close(); err != nil {
			return fmt.Errorf("close amqp channel: %w", err)
		}
	}
	if s.conn != nil && !s.conn.IsClosed() {
		if err := s.conn.Close(); err != nil {
			return fmt.Errorf("close amqp connection: %w", err)
		}
	}
	return nil
}
