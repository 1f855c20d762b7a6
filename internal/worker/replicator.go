// Package worker drains the inventory change queue into the configured sinks.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
	"github.com/jan-ice17/supermarket-inventory/internal/port"
)

const applyTimeout = 5 * time.Second

type Sink struct {
	Name string
	port.ChangeSink
}

type FailureRecorder interface {
	ReplicationFailed(sink string)
}

// Replicator applies every change to each sink in turn. Run a single
// Replicator per queue so sinks see changes in log order.
type Replicator struct {
	sinks       []Sink
	maxAttempts int
	backoff     time.Duration
	failures    FailureRecorder
	logger      *slog.Logger
}

func NewReplicator(sinks []Sink, maxAttempts int, failures FailureRecorder, logger *slog.Logger) *Replicator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Replicator{
		sinks:       sinks,
		maxAttempts: maxAttempts,
		backoff:     100 * time.Millisecond,
		failures:    failures,
		logger:      logger,
	}
}

// Run applies changes until queue is closed and drained, or until ctx is
// cancelled. Each sink call is bounded by ctx and a per-change timeout.
func (r *Replicator) Run(ctx context.Context, queue <-chan domain.Change) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Warn("replicator stopped before queue drained", "pending", len(queue), "error", ctx.Err())
			return
		case change, ok := <-queue:
			if !ok {
				return
			}
			for _, sink := range r.sinks {
				r.apply(ctx, sink, change)
			}
		}
	}
}

func (r *Replicator) apply(ctx context.Context, sink Sink, change domain.Change) {
	var err error
retry:
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		applyCtx, cancel := context.WithTimeout(ctx, applyTimeout)
		err = sink.ApplyChange(applyCtx, change)
		cancel()

		if err == nil {
			r.logger.Debug("change replicated", "sink", sink.Name, "seq", change.Seq, "item_id", change.ItemID)
			return
		}

		r.logger.Warn("replication attempt failed",
			"sink", sink.Name, "seq", change.Seq, "attempt", attempt, "error", err)
		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retry
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}

	r.logger.Error("change dropped by sink",
		"sink", sink.Name, "seq", change.Seq, "change_id", change.ID, "entry", change.Entry, "error", err)
	if r.failures != nil {
		r.failures.ReplicationFailed(sink.Name)
	}
}
