package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/pruebavolte/salvadorex-queue/internal/models"
	"github.com/pruebavolte/salvadorex-queue/internal/utils"
)

// QueueEvent is the wire record for one lifecycle transition.
type QueueEvent struct {
	Type         string        `json:"type"`
	TenantId     string        `json:"tenant_id"`
	EntryId      string        `json:"entry_id"`
	TicketNumber int           `json:"ticket_number"`
	Status       models.Status `json:"status"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// MessageWriter is the slice of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageReader is the slice of kafka.Reader the consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Events publishes queue lifecycle transitions to Kafka, keyed by tenant so
// ordering is preserved per tenant. Publishing is best-effort: failures are
// retried with backoff and then logged, never surfaced to the operation
// that caused them.
type Events struct {
	log    *zerolog.Logger
	writer MessageWriter
	reader MessageReader
}

func NewEvents(writer MessageWriter, reader MessageReader, log *zerolog.Logger) *Events {
	return &Events{
		log:    log,
		writer: writer,
		reader: reader,
	}
}

func (ev *Events) Publish(ctx context.Context, eventType string, entry models.QueueEntry) {
	event := QueueEvent{
		Type:         eventType,
		TenantId:     entry.TenantId,
		EntryId:      entry.Id.String(),
		TicketNumber: entry.TicketNumber,
		Status:       entry.Status,
		OccurredAt:   time.Now(),
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		ev.log.Error().Err(err).Msg("Error marshalling queue event")

		return
	}

	err = utils.RetryOperation(ctx, func() error {
		return ev.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(entry.TenantId),
			Value: jsonData,
		})
	})
	if err != nil {
		ev.log.Error().Err(err).
			Str("type", eventType).
			Str("tenantID", entry.TenantId).
			Msg("Error publishing queue event")

		return
	}

	ev.log.Info().
		Str("type", eventType).
		Str("tenantID", entry.TenantId).
		Int("ticket", entry.TicketNumber).
		Msg("Queue event sent to Kafka")
}

// ProcessEvents drains the topic for downstream displays and audit until
// the context is cancelled.
func (ev *Events) ProcessEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ev.log.Info().Msg("Stopping event processing...")

			return
		default:
			msg, err := ev.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				ev.log.Error().Err(err).Msg("Error fetching event message")

				continue
			}

			var event QueueEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				ev.log.Error().Err(err).Msg("Error unmarshalling queue event")
			} else {
				ev.log.Info().
					Str("type", event.Type).
					Str("tenantID", event.TenantId).
					Int("ticket", event.TicketNumber).
					Msg("Queue event consumed")
			}

			if err := ev.reader.CommitMessages(ctx, msg); err != nil {
				ev.log.Error().Err(err).Msg("Error committing event message")
			}
		}
	}
}
