// Package task defines the domain model for computation tasks submitted to the
// remote platform: workflow identities, task lifecycle states, submission
// specs, and the live-task handle the orchestrator tracks.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Workflow identifies one of the dashboard's analysis pipelines.  Each
// workflow owns at most one live task at a time.
type Workflow string

const (
	WorkflowStatistics Workflow = "statistics"
	WorkflowSurvival   Workflow = "survival"
	WorkflowSimilarity Workflow = "similarity"
)

// Workflows lists all known workflows.
var Workflows = []Workflow{WorkflowStatistics, WorkflowSurvival, WorkflowSimilarity}

// Valid reports whether w names a known workflow.
func (w Workflow) Valid() bool {
	switch w {
	case WorkflowStatistics, WorkflowSurvival, WorkflowSimilarity:
		return true
	}
	return false
}

// State is the orchestrator-side lifecycle state of a workflow's task slot.
type State string

const (
	// StateIdle means no task has been submitted for the workflow yet.
	StateIdle State = "idle"
	// StateSubmitted means the task was accepted by the platform but has not
	// been polled yet.
	StateSubmitted State = "submitted"
	// StatePolling means at least one poll found the task incomplete.
	StatePolling State = "polling"
	// StateCompleted means the platform reported the task complete and the
	// results were retrieved.
	StateCompleted State = "completed"
	// StateFailed means submission or retrieval failed terminally.
	StateFailed State = "failed"
)

// Spec describes a task to submit: the algorithm image, entrypoint method,
// keyword arguments, and the collaboration scope it runs in.  Tasks are always
// submitted as master tasks, mirroring how the platform fans work out to the
// participating organizations.
type Spec struct {
	Workflow        Workflow               `json:"workflow"`
	Name            string                 `json:"name"`
	Image           string                 `json:"image"`
	Method          string                 `json:"method"`
	Kwargs          map[string]interface{} `json:"kwargs"`
	CollaborationID int                    `json:"collaboration_id"`
	OrganizationIDs []int                  `json:"organization_ids"`
}

// Handle identifies one submitted task.  Generation is a monotonically
// increasing per-workflow counter assigned at submission; results are only
// accepted into the cache when their generation matches the workflow's
// current one.
type Handle struct {
	ID          int       `json:"id"`
	RequestID   string    `json:"request_id"`
	Workflow    Workflow  `json:"workflow"`
	Method      string    `json:"method"`
	Generation  uint64    `json:"generation"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewRequestID mints the correlation ID attached to every submission, carried
// through logs, lifecycle events, and the task history table.
func NewRequestID() string {
	return uuid.NewString()
}

// Status is the platform-side view of a task, as reported by a poll.
type Status struct {
	ID         int        `json:"id"`
	Complete   bool       `json:"complete"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

//Personal.AI order the ending
