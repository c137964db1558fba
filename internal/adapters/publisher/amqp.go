package publisher

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/ports"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.PlanPublisher = (*AMQPPlanPublisher)(nil)

const DefaultExchange = "tours.plans"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPlanPublisher publishes finished plans to a durable fanout exchange.
type AMQPPlanPublisher struct {
	ch       amqpChannel
	exchange string
}

func NewAMQPPlanPublisher(conn *amqp.Connection, exchange string) (*AMQPPlanPublisher, error) {
	if conn == nil {
		return nil, errors.New("amqp publisher: connection is nil")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	p, err := NewAMQPPlanPublisherWithChannel(ch, exchange)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

// NewAMQPPlanPublisherWithChannel declares the exchange on an open channel.
func NewAMQPPlanPublisherWithChannel(ch amqpChannel, exchange string) (*AMQPPlanPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPlanPublisher{ch: ch, exchange: exchange}, nil
}

func (p *AMQPPlanPublisher) PublishPlan(ctx context.Context, plan *domain.Plan) error {
	body, err := encodePlan(plan)
	if err != nil {
		return fmt.Errorf("amqp publish plan: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    plan.ID.String(),
		Type:         planEventType,
		Timestamp:    plan.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish plan %s: %w", plan.ID, err)
	}

	log.Printf("amqp: published plan_id=%s exchange=%s bytes=%d", plan.ID, p.exchange, len(body))
	return nil
}

func (p *AMQPPlanPublisher) Close() error { return p.ch.Close() }
