// Package kafka publishes task lifecycle events so downstream consumers
// (audit pipelines, notification services) can follow the dashboard's remote
// computations without polling it.
package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/onconet/healthai/internal/domain/task"
)

// Lifecycle event topics.
const (
	TopicTaskSubmitted = "healthai.task.submitted"
	TopicTaskCompleted = "healthai.task.completed"
	TopicTaskFailed    = "healthai.task.failed"
)

// EventEnvelope is the wire format of every lifecycle event.
type EventEnvelope struct {
	EventID    string        `json:"event_id"`
	EventType  string        `json:"event_type"`
	Workflow   task.Workflow `json:"workflow"`
	TaskID     int           `json:"task_id"`
	RequestID  string        `json:"request_id"`
	Generation uint64        `json:"generation"`
	ElapsedMs  int64         `json:"elapsed_ms,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// newEnvelope fills the common fields from a task handle.
func newEnvelope(eventType string, h task.Handle) EventEnvelope {
	return EventEnvelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Workflow:   h.Workflow,
		TaskID:     h.ID,
		RequestID:  h.RequestID,
		Generation: h.Generation,
		OccurredAt: time.Now().UTC(),
	}
}

//Personal.AI order the ending
