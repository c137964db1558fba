package publisher

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/ports"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
)

var _ ports.PlanPublisher = (*KafkaPlanPublisher)(nil)

const DefaultTopic = "tours.plans"

// Writer is the part of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPlanPublisher writes finished plans to a topic keyed by plan id.
type KafkaPlanPublisher struct {
	writer Writer
}

func NewKafkaPlanPublisher(brokers []string, topic string) *KafkaPlanPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return NewKafkaPlanPublisherWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
}

func NewKafkaPlanPublisherWithWriter(w Writer) *KafkaPlanPublisher {
	return &KafkaPlanPublisher{writer: w}
}

func (p *KafkaPlanPublisher) PublishPlan(ctx context.Context, plan *domain.Plan) error {
	body, err := encodePlan(plan)
	if err != nil {
		return fmt.Errorf("kafka publish plan: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(plan.ID.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(planEventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish plan %s: %w", plan.ID, err)
	}

	log.Printf("kafka: published plan_id=%s bytes=%d", plan.ID, len(body))
	return nil
}

func (p *KafkaPlanPublisher) Close() error { return p.writer.Close() }
