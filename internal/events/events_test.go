package events_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pruebavolte/salvadorex-queue/internal/events"
	"github.com/pruebavolte/salvadorex-queue/internal/models"
)

type mockWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	fail     bool
}

func (mw *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.fail {
		return errors.New("broker unavailable")
	}

	mw.messages = append(mw.messages, msgs...)

	return nil
}

type mockReader struct {
	incoming  chan kafka.Message
	committed chan kafka.Message
}

func newMockReader() *mockReader {
	return &mockReader{
		incoming:  make(chan kafka.Message, 10),
		committed: make(chan kafka.Message, 10),
	}
}

func (mr *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-mr.incoming:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (mr *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		mr.committed <- msg
	}

	return nil
}

func sampleEntry(tenantID string) models.QueueEntry {
	//nolint:exhaustruct
	return models.QueueEntry{
		Id:           uuid.New(),
		TenantId:     tenantID,
		TicketNumber: 7,
		Status:       models.StatusCalled,
	}
}

func TestEvents_PublishKeyedByTenant(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	writer := &mockWriter{}
	queueEvents := events.NewEvents(writer, newMockReader(), &logger)

	entry := sampleEntry("t1")
	queueEvents.Publish(context.Background(), "called", entry)

	writer.mu.Lock()
	defer writer.mu.Unlock()

	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("t1"), writer.messages[0].Key)

	var event events.QueueEvent
	err := json.Unmarshal(writer.messages[0].Value, &event)
	require.NoError(t, err)
	assert.Equal(t, "called", event.Type)
	assert.Equal(t, entry.Id.String(), event.EntryId)
	assert.Equal(t, 7, event.TicketNumber)
	assert.Equal(t, models.StatusCalled, event.Status)
}

func TestEvents_PublishFailureDoesNotPropagate(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	writer := &mockWriter{fail: true}
	queueEvents := events.NewEvents(writer, newMockReader(), &logger)

	// Must not panic or block the caller beyond the bounded retries
	queueEvents.Publish(context.Background(), "enqueued", sampleEntry("t1"))

	writer.mu.Lock()
	defer writer.mu.Unlock()
	assert.Empty(t, writer.messages)
}

func TestEvents_ProcessEventsCommits(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(nil)
	reader := newMockReader()
	queueEvents := events.NewEvents(&mockWriter{}, reader, &logger)

	payload, err := json.Marshal(events.QueueEvent{
		Type:         "enqueued",
		TenantId:     "t1",
		EntryId:      uuid.NewString(),
		TicketNumber: 1,
		Status:       models.StatusWaiting,
		OccurredAt:   time.Now(),
	})
	require.NoError(t, err)

	reader.incoming <- kafka.Message{Key: []byte("t1"), Value: payload}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go queueEvents.ProcessEvents(ctx)

	select {
	case msg := <-reader.committed:
		assert.Equal(t, []byte("t1"), msg.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not committed")
	}
}
