// Package mq publishes domain events to RabbitMQ.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/prometheusfi/prometheus/pkg/idx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// Exchange is the topic exchange every event is published to.
const Exchange = "prometheus.events"

// Routing keys.
const (
	InviteCreated = "invite.created"
	PostCreated   = "post.created"
	UserFollowed  = "user.followed"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// AMQP publishes persistent JSON messages on a topic exchange.
type AMQP struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Dial connects and declares the exchange.
func Dial(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQP{conn: conn, channel: channel}, nil
}

func (p *AMQP) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		Exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    idx.New().String(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	slogx.FromContext(ctx).Debug("event published", "routing_key", routingKey)
	return nil
}

func (p *AMQP) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Noop logs events instead of sending them. It is used when no broker is
// configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, routingKey string, _ any) error {
	slogx.FromContext(ctx).Debug("event dropped, no broker configured", "routing_key", routingKey)
	return nil
}

func (Noop) Close() error { return nil }

// Observed reports every publish outcome to observe.
type Observed struct {
	Publisher

	observe func(routingKey string, err error)
}

func WithObserver(p Publisher, observe func(routingKey string, err error)) *Observed {
	return &Observed{Publisher: p, observe: observe}
}

func (o *Observed) Publish(ctx context.Context, routingKey string, payload any) error {
	err := o.Publisher.Publish(ctx, routingKey, payload)
	o.observe(routingKey, err)
	return err
}
