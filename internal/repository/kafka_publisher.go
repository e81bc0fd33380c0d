package repository

import (
	"context"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	pkgkafka "github.com/winnervic367/trading-analyser/pkg/kafka"
)

// producer is the part of pkg/kafka.Producer used here.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaPublisher ships completed signals to the outcome topic, keyed by
// signal id.
type KafkaPublisher struct {
	producer producer
	topic    string
}

func NewKafkaPublisher(p *pkgkafka.Producer, topic string) drepo.Publisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, t models.Transition) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.Signal.ID), outcomeMessage(t))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, ts []models.Transition) error {
	if len(ts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(ts))
	for i, t := range ts {
		msgs[i] = pkgkafka.Message{Key: []byte(t.Signal.ID), Value: outcomeMessage(t)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

// Close is a no-op; the producer is shared with KafkaNotifier and closed by the app.
func (p *KafkaPublisher) Close() error {
	return nil
}

func outcomeMessage(t models.Transition) map[string]interface{} {
	return map[string]interface{}{
		"signal": t.Signal,
		"price":  t.Price,
	}
}

// KafkaNotifier publishes refresh events to the events topic.
type KafkaNotifier struct {
	producer producer
	topic    string
}

func NewKafkaNotifier(p *pkgkafka.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: p, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, evt models.Event) error {
	var key []byte
	if evt.Signal != nil {
		key = []byte(evt.Signal.ID)
	}
	return n.producer.Publish(ctx, n.topic, key, evt)
}
