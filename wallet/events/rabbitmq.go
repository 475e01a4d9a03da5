package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultExchange = "wallet.events"

var (
	ErrChannelRequired = errors.New("rabbitmq channel is required")
	ErrEventTypeEmpty  = errors.New("event type is empty")
)

// AMQPChannel defines the AMQP channel operations required by the publisher.
type AMQPChannel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
}

// AMQPPublisher publishes transfer events to a RabbitMQ topic exchange using
// the event type as routing key.
type AMQPPublisher struct {
	channel  AMQPChannel
	exchange string
}

// AMQPOption configures the AMQP publisher.
type AMQPOption func(*AMQPPublisher)

// WithExchange overrides the default exchange name.
func WithExchange(exchange string) AMQPOption {
	return func(publisher *AMQPPublisher) {
		if exchange != "" {
			publisher.exchange = exchange
		}
	}
}

// NewAMQPPublisher creates a publisher on an open AMQP channel.
func NewAMQPPublisher(channel AMQPChannel, opts ...AMQPOption) (*AMQPPublisher, error) {
	if channel == nil {
		return nil, ErrChannelRequired
	}

	publisher := &AMQPPublisher{
		channel:  channel,
		exchange: defaultExchange,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(publisher)
		}
	}

	return publisher, nil
}

// Publish marshals the event and publishes it as a persistent JSON message.
func (publisher *AMQPPublisher) Publish(ctx context.Context, event TransferEvent) error {
	if event.Type == "" {
		return ErrEventTypeEmpty
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transfer event: %w", err)
	}

	err = publisher.channel.PublishWithContext(
		ctx,
		publisher.exchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.TransactionID.String(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish transfer event: %w", err)
	}

	return nil
}
