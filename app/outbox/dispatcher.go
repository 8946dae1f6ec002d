// Package outbox drains the durable event journal: a background dispatcher
// claims unpublished entries, hands them to a delivery sink, and marks them
// published. Delivery is at-least-once; marking published is at-most-once.
package outbox

import (
	"context"
	"log/slog"
	"time"

	"community/app/models"
	"community/app/repositories"
)

// Sink delivers a single outbox entry downstream. Sinks should be
// idempotent per entry ID, since a crash between delivery and mark can
// replay an entry.
type Sink interface {
	Deliver(ctx context.Context, entry *models.OutboxEntry) error
}

// Dispatcher periodically drains the outbox. Multiple dispatcher instances
// can run against the same store: MarkPublished is conditional, so at most
// one of them transitions a given entry.
type Dispatcher struct {
	outbox     repositories.OutboxRepository
	sink       Sink
	interval   time.Duration
	batchSize  int
	maxRetries int
	staleAfter time.Duration
}

// Fallback cadences for non-positive configuration values; ticker
// intervals must be positive.
const (
	defaultInterval   = 5 * time.Second
	defaultStaleAfter = 6 * time.Hour
)

// NewDispatcher creates a dispatcher with the given cadence and bounds.
// Non-positive durations fall back to the defaults.
func NewDispatcher(
	outbox repositories.OutboxRepository,
	sink Sink,
	interval time.Duration,
	batchSize, maxRetries int,
	staleAfter time.Duration,
) *Dispatcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &Dispatcher{
		outbox:     outbox,
		sink:       sink,
		interval:   interval,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		staleAfter: staleAfter,
	}
}

// Run dispatches until the context is cancelled. Staleness is checked on a
// slower cadence than dispatch.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	staleTicker := time.NewTicker(d.staleAfter / 2)
	defer staleTicker.Stop()

	slog.Info("outbox dispatcher started",
		"interval", d.interval, "batch_size", d.batchSize, "max_retries", d.maxRetries)

	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox dispatcher stopped")
			return nil
		case <-ticker.C:
			if _, err := d.DispatchOnce(ctx); err != nil {
				slog.Error("outbox dispatch pass failed", "error", err)
			}
		case <-staleTicker.C:
			d.reportStale()
		}
	}
}

// DispatchOnce claims one batch and attempts delivery for each entry. It
// returns how many entries this instance successfully published.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	entries, err := d.outbox.ClaimBatch(d.maxRetries, d.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}

		if err := d.sink.Deliver(ctx, entry); err != nil {
			if retryErr := d.outbox.MarkRetry(entry); retryErr != nil {
				slog.Error("failed to record outbox retry",
					"entry_id", entry.ID, "error", retryErr)
				continue
			}
			if entry.RetryCount >= d.maxRetries {
				// Dead letter: the entry stays unpublished forever and
				// needs an operator.
				slog.Error("outbox entry dead-lettered",
					"entry_id", entry.ID, "event_type", entry.EventType,
					"aggregate_id", entry.AggregateID, "retries", entry.RetryCount,
					"error", err)
			} else {
				slog.Warn("outbox delivery failed, will retry",
					"entry_id", entry.ID, "event_type", entry.EventType,
					"retries", entry.RetryCount, "error", err)
			}
			continue
		}

		won, err := d.outbox.MarkPublished(entry)
		if err != nil {
			slog.Error("failed to mark outbox entry published",
				"entry_id", entry.ID, "error", err)
			continue
		}
		if !won {
			// Another dispatcher got there first; with an idempotent sink
			// the duplicate delivery is harmless.
			slog.Debug("outbox entry already published by another dispatcher",
				"entry_id", entry.ID)
			continue
		}
		published++
	}
	return published, nil
}

func (d *Dispatcher) reportStale() {
	stale, err := d.outbox.FindStale(time.Now().UTC().Add(-d.staleAfter))
	if err != nil {
		slog.Error("outbox staleness check failed", "error", err)
		return
	}
	if len(stale) > 0 {
		slog.Warn("outbox has stale unpublished entries",
			"count", len(stale), "threshold", d.staleAfter,
			"oldest", stale[0].OccurredAt)
	}
}
