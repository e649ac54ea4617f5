package notifier

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/kafka"
)

// KafkaNotifier publishes finalized orders to the order events topic.
type KafkaNotifier struct {
	publisher domain.PublisherPort
	topic     string
}

func NewKafkaNotifier(publisher domain.PublisherPort, topic string) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, topic: topic}
}

func (n *KafkaNotifier) NotifyOrderFinalized(ctx context.Context, event domain.OrderFinalizedEvent) error {
	msg, err := kafka.EncodeOrderEvent(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	return n.publisher.Publish(ctx, n.topic, msg)
}
