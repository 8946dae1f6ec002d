package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a durable record of a domain event awaiting publication.
// It is created in the same unit of work as the aggregate write that
// produced the event. Once Published is true the entry is immutable; only a
// retention sweep ever deletes entries.
type OutboxEntry struct {
	ID          string     `json:"id"`
	EventType   string     `json:"eventType"`
	AggregateID string     `json:"aggregateId"`
	OccurredAt  time.Time  `json:"occurredAt"`
	Payload     []byte     `json:"payload"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	RetryCount  int        `json:"retryCount"`
	LastRetryAt *time.Time `json:"lastRetryAt,omitempty"`
}

// NewOutboxEntry serializes the event into an unpublished outbox entry.
func NewOutboxEntry(event Event) (*OutboxEntry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event %T: %w", event, err)
	}

	h := event.Header()
	return &OutboxEntry{
		ID:          uuid.NewString(),
		EventType:   h.EventType,
		AggregateID: h.AggregateID,
		OccurredAt:  h.OccurredAt,
		Payload:     payload,
	}, nil
}

// NewOutboxEntries converts a batch of events, preserving order.
func NewOutboxEntries(events ...Event) ([]*OutboxEntry, error) {
	entries := make([]*OutboxEntry, 0, len(events))
	for _, ev := range events {
		entry, err := NewOutboxEntry(ev)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Eligible reports whether the entry may still be claimed for dispatch.
func (e *OutboxEntry) Eligible(maxRetries int) bool {
	return !e.Published && e.RetryCount < maxRetries
}

// Stale reports whether the entry has been sitting unpublished since before
// the given cutoff.
func (e *OutboxEntry) Stale(before time.Time) bool {
	return !e.Published && e.OccurredAt.Before(before)
}
