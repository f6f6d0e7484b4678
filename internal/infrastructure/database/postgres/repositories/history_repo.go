// Package repositories implements the SQL persistence of the task audit
// trail.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/pkg/errors"
)

// HistoryRecord is one persisted row of the task audit trail.
type HistoryRecord struct {
	RequestID   string        `json:"request_id"`
	TaskID      int           `json:"task_id"`
	Workflow    task.Workflow `json:"workflow"`
	Method      string        `json:"method"`
	Generation  uint64        `json:"generation"`
	State       task.State    `json:"state"`
	Elapsed     time.Duration `json:"elapsed"`
	SubmittedAt time.Time     `json:"submitted_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HistoryRepo persists workflow task submissions and their outcomes.  It
// implements the orchestrator's HistoryStore port.
type HistoryRepo struct {
	db     *sql.DB
	logger logging.Logger
}

// NewHistoryRepo builds a HistoryRepo over db.
func NewHistoryRepo(db *sql.DB, log logging.Logger) *HistoryRepo {
	return &HistoryRepo{db: db, logger: log}
}

const insertSubmissionSQL = `
INSERT INTO workflow_tasks (request_id, task_id, workflow, method, generation, state, submitted_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

// RecordSubmission inserts the audit row for a freshly submitted task.
func (r *HistoryRepo) RecordSubmission(ctx context.Context, h task.Handle, spec task.Spec) error {
	_, err := r.db.ExecContext(ctx, insertSubmissionSQL,
		h.RequestID, h.ID, string(h.Workflow), spec.Method, h.Generation,
		string(task.StateSubmitted), h.SubmittedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record task submission")
	}
	return nil
}

const updateOutcomeSQL = `
UPDATE workflow_tasks
SET state = $2, elapsed_ms = $3, updated_at = $4
WHERE request_id = $1`

// RecordOutcome updates the audit row with the task's terminal state and
// elapsed duration.
func (r *HistoryRepo) RecordOutcome(ctx context.Context, requestID string, state task.State, elapsed time.Duration) error {
	res, err := r.db.ExecContext(ctx, updateOutcomeSQL,
		requestID, string(state), elapsed.Milliseconds(), time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record task outcome")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New(errors.ErrCodeNotFound, "no audit row for request").
			WithDetail("request_id=" + requestID)
	}
	return nil
}

const listRecentSQL = `
SELECT request_id, task_id, workflow, method, generation, state, COALESCE(elapsed_ms, 0), submitted_at, updated_at
FROM workflow_tasks
ORDER BY submitted_at DESC
LIMIT $1`

// ListRecent returns the newest audit rows, most recent first.
func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listRecentSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list task history")
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var (
			rec       HistoryRecord
			workflow  string
			state     string
			elapsedMs int64
		)
		if err := rows.Scan(&rec.RequestID, &rec.TaskID, &workflow, &rec.Method,
			&rec.Generation, &state, &elapsedMs, &rec.SubmittedAt, &rec.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan task history row")
		}
		rec.Workflow = task.Workflow(workflow)
		rec.State = task.State(state)
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate task history rows")
	}
	return records, nil
}

//Personal.AI order the ending
