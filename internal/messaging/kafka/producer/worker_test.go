package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"go-empms/internal/messaging/kafka"
	"go-empms/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	mu      sync.Mutex
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return nil
}

// ListPending drains the queue: each batch is handed out once.
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := f.pending
	f.pending = nil
	return events, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

func (f *fakeOutboxRepository) sentIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeOutboxRepository) failedReasons() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for k, v := range f.failed {
		out[k] = v
	}
	return out
}

type fakeWriter struct {
	mu       sync.Mutex
	failFor  map[string]error
	messages []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, msg := range msgs {
		if err, ok := w.failFor[string(msg.Key)]; ok {
			return err
		}
		w.messages = append(w.messages, msg)
	}
	return nil
}

func (w *fakeWriter) captured() []kafkago.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafkago.Message(nil), w.messages...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestProcessOutboxEvents(t *testing.T) {
	t.Run("pending events are published and marked sent", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := &fakeOutboxRepository{
			pending: []kafka.OutboxEvent{
				{
					ID:            "evt-1",
					AggregateType: "salary",
					AggregateID:   "agg-1",
					EventType:     "salary_created",
					Topic:         "hr.salary.lifecycle.v1",
					Payload:       []byte(`{"amount":60000}`),
					Status:        kafka.OutboxStatusPending,
				},
			},
		}
		writer := &fakeWriter{}

		done := make(chan struct{})
		go func() {
			producer.ProcessOutboxEvents(ctx, repo, writer, zap.NewNop(), time.Millisecond)
			close(done)
		}()

		waitFor(t, func() bool { return len(repo.sentIDs()) == 1 })
		cancel()
		<-done

		assert.Equal(t, []string{"evt-1"}, repo.sentIDs())

		msgs := writer.captured()
		assert.Len(t, msgs, 1)
		assert.Equal(t, "hr.salary.lifecycle.v1", msgs[0].Topic)
		assert.Equal(t, []byte("agg-1"), msgs[0].Key)
		assert.Equal(t, []byte(`{"amount":60000}`), msgs[0].Value)

		headers := map[string]string{}
		for _, h := range msgs[0].Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "salary_created", headers["event_type"])
		assert.Equal(t, "salary", headers["aggregate_type"])
	})

	t.Run("publish failures are marked for retry without stopping the batch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := &fakeOutboxRepository{
			pending: []kafka.OutboxEvent{
				{ID: "evt-bad", AggregateID: "bad", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending},
				{ID: "evt-good", AggregateID: "good", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending},
			},
		}
		writer := &fakeWriter{
			failFor: map[string]error{"bad": errors.New("broker unreachable")},
		}

		done := make(chan struct{})
		go func() {
			producer.ProcessOutboxEvents(ctx, repo, writer, zap.NewNop(), time.Millisecond)
			close(done)
		}()

		waitFor(t, func() bool {
			return len(repo.sentIDs()) == 1 && len(repo.failedReasons()) == 1
		})
		cancel()
		<-done

		assert.Equal(t, []string{"evt-good"}, repo.sentIDs())
		assert.Equal(t, "broker unreachable", repo.failedReasons()["evt-bad"])
	})
}
