package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-empms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultHeartbeatInterval = 5 * time.Second

// Publisher is the slice of kafkago.Writer the scheduler needs.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// RunHeartbeat publishes a numbered heartbeat message on a fixed
// interval until the context is cancelled.
func RunHeartbeat(ctx context.Context, writer Publisher, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}

	log := logger.Named("heartbeat.scheduler")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("heartbeat scheduler started", zap.Duration("interval", interval))

	counter := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("heartbeat scheduler stopped")
			return
		case <-ticker.C:
			counter++
			if err := publishHeartbeat(ctx, writer, counter); err != nil {
				log.Error("publish heartbeat failed",
					zap.Int("sequence", counter),
					zap.Error(err),
				)
				continue
			}
			log.Debug("heartbeat sent", zap.Int("sequence", counter))
		}
	}
}

func publishHeartbeat(ctx context.Context, writer Publisher, sequence int) error {
	now := time.Now().UTC()
	event := events.HeartbeatEvent{
		Sequence:   sequence,
		Message:    fmt.Sprintf("Scheduled message #%d at %s", sequence, now.Format(time.RFC3339)),
		OccurredAt: now,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return writer.WriteMessages(ctx, kafkago.Message{
		Topic: events.HeartbeatTopic,
		Value: payload,
	})
}
