package consumer

import (
	"context"
	"encoding/json"

	"go-empms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Reader is the slice of kafkago.Reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeHeartbeats logs every heartbeat message it receives. The
// heartbeat pair (scheduler publishes, this consumer logs) exists to
// demonstrate the messaging path end to end; it carries no salary logic.
func ConsumeHeartbeats(ctx context.Context, reader Reader, logger *zap.Logger) {
	log := logger.Named("heartbeat.consumer")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("fetch heartbeat failed", zap.Error(err))
			continue
		}

		var event events.HeartbeatEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode heartbeat failed", zap.Error(err))
			if commitErr := reader.CommitMessages(ctx, msg); commitErr != nil {
				log.Error("commit invalid heartbeat failed", zap.Error(commitErr))
			}
			continue
		}

		log.Info("heartbeat received",
			zap.Int("sequence", event.Sequence),
			zap.String("message", event.Message),
			zap.Time("occurred_at", event.OccurredAt),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit heartbeat failed", zap.Error(err))
		}
	}
}
