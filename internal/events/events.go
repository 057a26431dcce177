// Package events publishes domain events for downstream consumers such as
// CRM sync or notification workers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Routing keys.
const (
	ContactSubmitted = "contact.submitted"
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.status_changed"
	PaymentSucceeded = "payment.succeeded"
	PaymentFailed    = "payment.failed"
	UserRegistered   = "user.registered"
	NewsletterJoined = "newsletter.subscribed"
)

const exchangeKind = "topic"

// Envelope wraps every published payload.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Publisher publishes events. Failures are reported but never block the
// request that produced the event.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// Nop discards events.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, string, any) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }

// RabbitPublisher publishes JSON envelopes to a durable topic exchange.
type RabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      zerolog.Logger
}

// NewRabbitPublisher dials the broker and declares the exchange.
func NewRabbitPublisher(url, exchange string, log zerolog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// NewEnvelope stamps data with an id and timestamp.
func NewEnvelope(routingKey string, data any, now time.Time) Envelope {
	return Envelope{ID: uuid.NewString(), Type: routingKey, OccurredAt: now.UTC(), Data: data}
}

// Publish sends data under routingKey.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	env := NewEnvelope(routingKey, data, time.Now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Type:         routingKey,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.log.Debug().Str("exchange", p.exchange).Str("routing_key", routingKey).Str("event_id", env.ID).Msg("event published")
	return nil
}

// Close closes the channel and connection.
func (p *RabbitPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	Events []Envelope
}

// Publish records the event.
func (r *Recorder) Publish(_ context.Context, routingKey string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, NewEnvelope(routingKey, data, time.Now()))
	return nil
}

// Close does nothing.
func (r *Recorder) Close() error { return nil }

// Types lists recorded routing keys in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}
