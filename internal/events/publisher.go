// Package events publishes domain events (bookings, membership charges) to
// RabbitMQ. Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"gymflow/internal/logger"
	"gymflow/internal/metrics"
)

const (
	QueueBookingCreated = "booking.created"
	QueueAccountBilled  = "account.billed"
)

type BookingCreated struct {
	BookingID int       `json:"booking_id"`
	MemberID  int       `json:"member_id"`
	ClassID   int       `json:"class_id"`
	StartTime time.Time `json:"start_time"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountBilled struct {
	UserID          int       `json:"user_id"`
	AmountCents     int64     `json:"amount_cents"`
	CentsOwed       int64     `json:"cents_owed"`
	BilledFor       time.Time `json:"billed_for"`
	NextBillingDate time.Time `json:"next_billing_date"`
}

type Publisher interface {
	PublishBookingCreated(ctx context.Context, e BookingCreated) error
	PublishAccountBilled(ctx context.Context, e AccountBilled) error
	Close() error
}

// NewPublisher dials url, or returns a no-op publisher when url is empty.
func NewPublisher(url string) (Publisher, error) {
	if url == "" {
		logger.Info("RABBITMQ_URL not set, domain events disabled")
		return Noop{}, nil
	}
	return DialAMQP(url)
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishBookingCreated(context.Context, BookingCreated) error { return nil }
func (Noop) PublishAccountBilled(context.Context, AccountBilled) error   { return nil }
func (Noop) Close() error                                                { return nil }

// AMQPPublisher keeps one connection and one channel; the channel is
// guarded because amqp channels are not safe for concurrent publishing.
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	for _, q := range []string{QueueBookingCreated, QueueAccountBilled} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("rabbitmq declare %s: %w", q, err)
		}
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) PublishBookingCreated(ctx context.Context, e BookingCreated) error {
	return p.publish(ctx, QueueBookingCreated, e)
}

func (p *AMQPPublisher) PublishAccountBilled(ctx context.Context, e AccountBilled) error {
	return p.publish(ctx, QueueAccountBilled, e)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event interface{}) error {
	msg, err := newPublishing(event, time.Now())
	if err != nil {
		metrics.RecordEvent(queue, "failed")
		return err
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, "", queue, false, false, msg)
	p.mu.Unlock()

	if err != nil {
		metrics.RecordEvent(queue, "failed")
		return fmt.Errorf("rabbitmq publish %s: %w", queue, err)
	}

	metrics.RecordEvent(queue, "ok")
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	return p.conn.Close()
}

func newPublishing(event interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}
