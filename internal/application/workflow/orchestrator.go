package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/internal/infrastructure/vantage"
	"github.com/onconet/healthai/pkg/errors"
)

// slot is the orchestrator's view of one workflow's live task.
type slot struct {
	state   task.State
	handle  task.Handle
	failure error
}

// Orchestrator drives the submit/poll lifecycle.  Each workflow owns exactly
// one slot; submitting again supersedes the previous task by bumping the
// workflow's generation counter, and results from superseded tasks are
// rejected at the cache.
type Orchestrator struct {
	gateway vantage.Gateway
	cache   *Cache
	history HistoryStore
	events  EventPublisher
	logger  logging.Logger
	now     func() time.Time

	mu          sync.Mutex
	slots       map[task.Workflow]*slot
	generations map[task.Workflow]uint64
}

// NewOrchestrator wires the orchestrator.  history and events may be nil, in
// which case the nop implementations are used.
func NewOrchestrator(gateway vantage.Gateway, cache *Cache, history HistoryStore, events EventPublisher, logger logging.Logger) *Orchestrator {
	if history == nil {
		history = NopHistoryStore{}
	}
	if events == nil {
		events = NopEventPublisher{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Orchestrator{
		gateway:     gateway,
		cache:       cache,
		history:     history,
		events:      events,
		logger:      logger.Named("orchestrator"),
		now:         time.Now,
		slots:       make(map[task.Workflow]*slot),
		generations: make(map[task.Workflow]uint64),
	}
}

// Submit sends spec to the platform and installs the returned task as the
// workflow's live task.  Any previously live task for the workflow is
// superseded: its eventual results will fail the generation check.
func (o *Orchestrator) Submit(ctx context.Context, spec task.Spec) (task.Handle, error) {
	if !spec.Workflow.Valid() {
		return task.Handle{}, errors.InvalidParam("unknown workflow").
			WithDetail("workflow=" + string(spec.Workflow))
	}

	o.mu.Lock()
	o.generations[spec.Workflow]++
	gen := o.generations[spec.Workflow]
	o.mu.Unlock()
	o.cache.Advance(spec.Workflow, gen)

	h := task.Handle{
		RequestID:   task.NewRequestID(),
		Workflow:    spec.Workflow,
		Method:      spec.Method,
		Generation:  gen,
		SubmittedAt: o.now(),
	}

	id, err := o.gateway.CreateTask(ctx, spec)
	if err != nil {
		o.setSlot(spec.Workflow, &slot{state: task.StateFailed, handle: h, failure: err})
		if pubErr := o.events.PublishFailed(ctx, h, err.Error()); pubErr != nil {
			o.logger.Warn("failed to publish task event", logging.Err(pubErr))
		}
		return task.Handle{}, err
	}
	h.ID = id

	o.setSlot(spec.Workflow, &slot{state: task.StateSubmitted, handle: h})

	if err := o.history.RecordSubmission(ctx, h, spec); err != nil {
		o.logger.Warn("failed to record task submission", logging.Err(err))
	}
	if err := o.events.PublishSubmitted(ctx, h); err != nil {
		o.logger.Warn("failed to publish task event", logging.Err(err))
	}

	o.logger.Info("task submitted",
		logging.String("workflow", string(spec.Workflow)),
		logging.Int("task_id", id),
		logging.String("request_id", h.RequestID))
	return h, nil
}

// Poll checks the live task of w.  It returns true once the task completed
// and its results were accepted into the cache.  Polling a workflow without a
// live task is an error; a task that is simply not done yet returns false
// with no error.
func (o *Orchestrator) Poll(ctx context.Context, w task.Workflow) (bool, error) {
	state, h, failure, ok := o.snapshot(w)
	if !ok || state == task.StateIdle {
		return false, errors.New(errors.ErrCodeNoLiveTask, "no task has been submitted for this workflow").
			WithDetail("workflow=" + string(w))
	}

	switch state {
	case task.StateCompleted:
		return true, nil
	case task.StateFailed:
		return false, failure
	}

	st, err := o.gateway.TaskStatus(ctx, h.ID)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeTaskNotFound) {
			o.fail(ctx, w, h, err)
			return false, err
		}
		// Transient platform trouble: keep the slot alive and surface
		// the waiting condition.
		return false, errors.StillWaiting("").WithCause(err)
	}

	if !st.Complete {
		o.transition(w, h.Generation, task.StatePolling)
		return false, nil
	}

	records, err := o.gateway.TaskResults(ctx, h.ID)
	if err != nil {
		return false, errors.StillWaiting("").WithCause(err)
	}
	if len(records) == 0 {
		// The platform can report completion before the result rows land;
		// keep the slot alive and let the next poll retry the listing.
		return false, errors.StillWaiting("").WithDetail(fmt.Sprintf("task_id=%d", h.ID))
	}

	finished := o.now()
	if st.FinishedAt != nil {
		finished = *st.FinishedAt
	}
	elapsed := finished.Sub(h.SubmittedAt)

	entry := Entry{
		Workflow:   w,
		Generation: h.Generation,
		TaskID:     h.ID,
		RequestID:  h.RequestID,
		Records:    records,
		Elapsed:    elapsed,
		StoredAt:   o.now(),
	}
	if err := o.cache.Store(ctx, entry); err != nil {
		// This poll raced a newer submission; the superseded result is
		// discarded and the new task's slot is left untouched.
		return false, err
	}

	if !o.transition(w, h.Generation, task.StateCompleted) {
		return false, errors.New(errors.ErrCodeStaleResult, "result belongs to a superseded task").
			WithDetail("workflow=" + string(w))
	}

	if err := o.history.RecordOutcome(ctx, h.RequestID, task.StateCompleted, elapsed); err != nil {
		o.logger.Warn("failed to record task outcome", logging.Err(err))
	}
	if err := o.events.PublishCompleted(ctx, h, elapsed); err != nil {
		o.logger.Warn("failed to publish task event", logging.Err(err))
	}

	o.logger.Info("task completed",
		logging.String("workflow", string(w)),
		logging.Int("task_id", h.ID),
		logging.Duration("elapsed", elapsed))
	return true, nil
}

// Result returns the cached result entry for w.  It reports the workflow's
// lifecycle position when no result is available: no-live-task when nothing
// was submitted, still-waiting while the task runs, or the terminal failure.
func (o *Orchestrator) Result(ctx context.Context, w task.Workflow) (Entry, error) {
	state, _, failure, ok := o.snapshot(w)
	if !ok || state == task.StateIdle {
		// A durable cache entry from a previous process may still serve.
		if e, err := o.cache.Get(ctx, w); err == nil {
			return e, nil
		}
		return Entry{}, errors.New(errors.ErrCodeNoLiveTask, "no task has been submitted for this workflow").
			WithDetail("workflow=" + string(w))
	}

	switch state {
	case task.StateFailed:
		return Entry{}, failure
	case task.StateSubmitted, task.StatePolling:
		return Entry{}, errors.StillWaiting("")
	}
	return o.cache.Get(ctx, w)
}

// State reports the current lifecycle state of w's slot.
func (o *Orchestrator) State(w task.Workflow) task.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.slots[w]; ok {
		return s.state
	}
	return task.StateIdle
}

// Handle returns the live handle for w, if any.
func (o *Orchestrator) Handle(w task.Workflow) (task.Handle, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.slots[w]; ok && s.state != task.StateIdle {
		return s.handle, true
	}
	return task.Handle{}, false
}

func (o *Orchestrator) setSlot(w task.Workflow, s *slot) {
	o.mu.Lock()
	o.slots[w] = s
	o.mu.Unlock()
}

// snapshot copies w's slot fields under the lock.  Slots are mutated in place
// by transition and fail, so callers must never hold the *slot itself across
// an unlock.
func (o *Orchestrator) snapshot(w task.Workflow) (task.State, task.Handle, error, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.slots[w]
	if !ok {
		return task.StateIdle, task.Handle{}, nil, false
	}
	return s.state, s.handle, s.failure, true
}

// transition moves w's slot to state, but only while the slot still belongs
// to the given generation.  It reports whether the transition applied.
func (o *Orchestrator) transition(w task.Workflow, gen uint64, state task.State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.slots[w]
	if !ok || s.handle.Generation != gen {
		return false
	}
	s.state = state
	return true
}

func (o *Orchestrator) fail(ctx context.Context, w task.Workflow, h task.Handle, cause error) {
	// State and failure move together so no reader can observe a failed slot
	// without its cause.
	o.mu.Lock()
	if s, ok := o.slots[w]; ok && s.handle.Generation == h.Generation {
		s.state = task.StateFailed
		s.failure = cause
	}
	o.mu.Unlock()
	if err := o.history.RecordOutcome(ctx, h.RequestID, task.StateFailed, 0); err != nil {
		o.logger.Warn("failed to record task outcome", logging.Err(err))
	}
	if err := o.events.PublishFailed(ctx, h, cause.Error()); err != nil {
		o.logger.Warn("failed to publish task event", logging.Err(err))
	}
}

//Personal.AI order the ending
