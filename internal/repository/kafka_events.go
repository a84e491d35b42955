package repository

import (
	"context"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	pkgkafka "github.com/Dheeraj-Sharma-gif/WeFn/pkg/kafka"
)

// KafkaEvents publishes widget lifecycle events, keyed by widget id so
// events for one widget stay ordered within a partition.
type KafkaEvents struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEvents(producer *pkgkafka.Producer, topic string) repository.Events {
	return &KafkaEvents{producer: producer, topic: topic}
}

func (e *KafkaEvents) Publish(ctx context.Context, ev *models.WidgetEvent) error {
	return e.producer.Publish(ctx, e.topic, []byte(ev.WidgetID), ev)
}
