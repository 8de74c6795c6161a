package consumer_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-empms/internal/events"
	"go-empms/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     chan kafkago.Message
	committed []kafkago.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	select {
	case <-ctx.Done():
		return kafkago.Message{}, ctx.Err()
	case msg := <-r.queue:
		return msg, nil
	}
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestConsumeHeartbeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, err := json.Marshal(events.HeartbeatEvent{
		Sequence:   1,
		Message:    "Scheduled message #1 at 2024-07-01T00:00:05Z",
		OccurredAt: time.Date(2024, 7, 1, 0, 0, 5, 0, time.UTC),
	})
	assert.NoError(t, err)

	reader := &fakeReader{queue: make(chan kafkago.Message, 2)}
	reader.queue <- kafkago.Message{Topic: events.HeartbeatTopic, Value: payload}
	// Malformed payloads are committed too so they never wedge the group.
	reader.queue <- kafkago.Message{Topic: events.HeartbeatTopic, Value: []byte("not json")}

	done := make(chan struct{})
	go func() {
		consumer.ConsumeHeartbeats(ctx, reader, zap.NewNop())
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for reader.committedCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 2, reader.committedCount())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop on cancel")
	}
}
