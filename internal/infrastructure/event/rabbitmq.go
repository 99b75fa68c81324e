package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/erpsuite/finance/internal/domain/shared"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessagePublisher delivers outbox entries to the message broker.
type MessagePublisher interface {
	Publish(ctx context.Context, entry *shared.OutboxEntry) error
}

// RabbitMQPublisher publishes outbox entries to a RabbitMQ topic exchange.
// The routing key is the event type, so consumers bind with patterns like
// "invoice.*" or "quote.converted".
type RabbitMQPublisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
	logger   *zap.Logger
}

// NewRabbitMQPublisher connects to the broker and declares the exchange.
func NewRabbitMQPublisher(url, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	p := &RabbitMQPublisher{
		url:      url,
		exchange: exchange,
		logger:   logger,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitMQPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}

	p.conn = conn
	p.channel = channel
	p.logger.Info("connected to message broker", zap.String("exchange", p.exchange))
	return nil
}

// ensureChannel reconnects after a dropped connection. Delivery retries are
// the outbox processor's job, so a single reconnect attempt is enough here.
func (p *RabbitMQPublisher) ensureChannel() error {
	if p.conn != nil && !p.conn.IsClosed() && !p.channel.IsClosed() {
		return nil
	}
	p.logger.Warn("broker connection lost, reconnecting")
	return p.connect()
}

// Publish sends a single outbox entry to the exchange with persistent delivery.
func (p *RabbitMQPublisher) Publish(ctx context.Context, entry *shared.OutboxEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		p.exchange,
		entry.EventType, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    entry.EventID.String(),
			Type:         entry.EventType,
			Timestamp:    entry.CreatedAt,
			Headers: amqp.Table{
				"tenant_id":      entry.TenantID.String(),
				"aggregate_id":   entry.AggregateID.String(),
				"aggregate_type": entry.AggregateType,
			},
			Body: entry.Payload,
		},
	)
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil && !p.channel.IsClosed() {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}

// Ensure RabbitMQPublisher implements MessagePublisher
var _ MessagePublisher = (*RabbitMQPublisher)(nil)
