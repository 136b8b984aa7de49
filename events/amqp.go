package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InstanceCreatedQueue is the durable queue instance-creation events are
// published to.
const InstanceCreatedQueue = "auction.instance.created"

// AMQP publishes events to a RabbitMQ broker. A connection is dialed per
// publish so a broker restart never leaves the registry holding a dead
// channel; creation volume is low enough that this costs nothing.
type AMQP struct {
	url string
}

var _ Publisher = (*AMQP)(nil)

// NewAMQP returns a publisher for the broker at url.
func NewAMQP(url string) *AMQP {
	return &AMQP{url: url}
}

// PublishInstanceCreated publishes the event as a persistent JSON message.
// Errors are logged and returned so the caller can choose to ignore them.
func (p *AMQP) PublishInstanceCreated(ctx context.Context, event InstanceCreated) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("ERROR: rabbitmq dial failed: %v", err)
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("ERROR: rabbitmq channel open failed: %v", err)
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(
		InstanceCreatedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		log.Printf("ERROR: rabbitmq queue declare failed: %v", err)
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		InstanceCreatedQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		log.Printf("ERROR: rabbitmq publish failed: %v", err)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}
