// Package workflow implements the orchestration core: one live task slot per
// analysis workflow, the submit/poll state machine driving it, and the
// generation-checked result cache the dashboard reads from.
package workflow

import (
	"context"
	"time"

	"github.com/onconet/healthai/internal/domain/task"
)

// EventPublisher emits task lifecycle events to the message bus.  Publish
// failures are logged but never fail the workflow operation itself.
type EventPublisher interface {
	PublishSubmitted(ctx context.Context, h task.Handle) error
	PublishCompleted(ctx context.Context, h task.Handle, elapsed time.Duration) error
	PublishFailed(ctx context.Context, h task.Handle, reason string) error
}

// HistoryStore persists the task audit trail.
type HistoryStore interface {
	RecordSubmission(ctx context.Context, h task.Handle, spec task.Spec) error
	RecordOutcome(ctx context.Context, requestID string, state task.State, elapsed time.Duration) error
}

// DurableStore is the optional second cache tier (Redis) that survives
// process restarts.  A nil DurableStore disables the tier.
type DurableStore interface {
	Put(ctx context.Context, e Entry) error
	Fetch(ctx context.Context, w task.Workflow) (*Entry, error)
}

// NopEventPublisher discards all events.  Used when the message bus is
// disabled in configuration.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishSubmitted(context.Context, task.Handle) error { return nil }
func (NopEventPublisher) PublishCompleted(context.Context, task.Handle, time.Duration) error {
	return nil
}
func (NopEventPublisher) PublishFailed(context.Context, task.Handle, string) error { return nil }

// NopHistoryStore discards the audit trail.  Used when the database is
// disabled in configuration.
type NopHistoryStore struct{}

func (NopHistoryStore) RecordSubmission(context.Context, task.Handle, task.Spec) error { return nil }
func (NopHistoryStore) RecordOutcome(context.Context, string, task.State, time.Duration) error {
	return nil
}

//Personal.AI order the ending
