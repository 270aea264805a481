package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RateCardPublisher publishes rate card lifecycle events to RabbitMQ
type RateCardPublisher struct {
	conn *RabbitMQConnection
}

// NewRateCardPublisher creates a new rate card event publisher
func NewRateCardPublisher(conn *RabbitMQConnection) *RateCardPublisher {
	return &RateCardPublisher{
		conn: conn,
	}
}

// PublishEvent publishes a rate card event to the rate_card_events queue
func (p *RateCardPublisher) PublishEvent(ctx context.Context, ev RateCardEvent) error {
	_, err := p.conn.Channel.QueueDeclare(
		RateCardQueue, // queue name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal rate card event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",            // exchange
		RateCardQueue, // routing key (queue name)
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish rate card event: %w", err)
	}

	return nil
}
