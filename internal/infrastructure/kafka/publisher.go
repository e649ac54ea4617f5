package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           10 * time.Second,
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write %d messages to %s: %w", len(km), topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// EncodeOrderEvent keys the message by order id so events of one order keep their partition.
func EncodeOrderEvent(e domain.OrderFinalizedEvent) (domain.Message, error) {
	v, err := json.Marshal(NewOrderEvent(e))
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{Key: []byte(strconv.FormatInt(e.OrderID, 10)), Value: v}, nil
}

func DecodeOrderEvent(msg domain.Message) (OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Warn("failed to decode order event", "key", string(msg.Key), "error", err.Error())
		return OrderEvent{}, err
	}
	return event, nil
}
