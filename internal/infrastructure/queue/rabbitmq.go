// Package queue wraps the RabbitMQ connection used for background mail
// delivery.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const (
	Exchange        = "notifications"
	EmailRoutingKey = "email"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Publisher is the subset of *amqp.Channel used for publishing.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= retries; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logrus.Warnf("RabbitMQ not reachable (attempt %d/%d): %v", attempt, retries, err)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("connect rabbitmq: %w", err)
}

// SetupChannel declares the notifications exchange and binds every queue
// to it.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("bind queue %s to %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}

// PublishJSON publishes message as a persistent JSON delivery.
func PublishJSON(p Publisher, exchange, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	err = p.Publish(exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
	}
	return nil
}

// ErrTransient marks handler failures worth another attempt.
var ErrTransient = errors.New("transient failure")

// Transient wraps err so Drain requeues the delivery instead of dropping it.
func Transient(err error) error {
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// HandlerFunc processes one delivery body. A returned error rejects the
// delivery; it is requeued only when the error wraps ErrTransient.
type HandlerFunc func(ctx context.Context, body []byte) error

// Drain feeds deliveries to handle until ctx is cancelled or the channel
// closes.
func Drain(ctx context.Context, deliveries <-chan amqp.Delivery, handle HandlerFunc, log *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := handle(ctx, d.Body); err != nil {
				requeue := errors.Is(err, ErrTransient)
				log.Warnf("Failed to process delivery %d (requeue=%t): %+v", d.DeliveryTag, requeue, err)
				if nackErr := d.Nack(false, requeue); nackErr != nil {
					log.Warnf("Failed to nack delivery %d: %+v", d.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Warnf("Failed to ack delivery %d: %+v", d.DeliveryTag, ackErr)
			}
		}
	}
}
