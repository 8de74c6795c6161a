package producer

import (
	"context"

	"go-empms/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// Writer is the slice of kafkago.Writer the worker needs; narrowed so
// tests can substitute a recorder.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func publishEvent(ctx context.Context, writer Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
