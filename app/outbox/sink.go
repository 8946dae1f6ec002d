package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"community/app/models"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes outbox entries to NATS, one subject per event type.
// The entry ID travels in a header so consumers can deduplicate replays.
type NATSSink struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSSink creates a sink publishing under the given subject prefix,
// e.g. "community.events".
func NewNATSSink(nc *nats.Conn, subjectPrefix string) *NATSSink {
	return &NATSSink{nc: nc, subjectPrefix: subjectPrefix}
}

// Deliver publishes the entry's payload.
func (s *NATSSink) Deliver(_ context.Context, entry *models.OutboxEntry) error {
	msg := &nats.Msg{
		Subject: fmt.Sprintf("%s.%s", s.subjectPrefix, entry.EventType),
		Data:    entry.Payload,
		Header: nats.Header{
			"Outbox-Entry-Id": []string{entry.ID},
		},
	}
	if err := s.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish %s: %w", msg.Subject, err)
	}
	return nil
}

// LogSink writes entries to the log instead of a broker. Used in local
// runs when no NATS server is reachable.
type LogSink struct{}

// Deliver logs the entry.
func (LogSink) Deliver(_ context.Context, entry *models.OutboxEntry) error {
	slog.Info("outbox event",
		"event_type", entry.EventType,
		"aggregate_id", entry.AggregateID,
		"occurred_at", entry.OccurredAt,
		"payload", string(entry.Payload))
	return nil
}
