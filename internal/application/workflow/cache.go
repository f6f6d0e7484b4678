package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/pkg/errors"
)

// Entry is one workflow's cached result set: the raw per-organization records
// plus the correlation metadata needed to reject stale writes.  Elapsed is
// computed exactly once, when the entry is stored.
type Entry struct {
	Workflow   task.Workflow       `json:"workflow"`
	Generation uint64              `json:"generation"`
	TaskID     int                 `json:"task_id"`
	RequestID  string              `json:"request_id"`
	Records    []task.ResultRecord `json:"records"`
	Elapsed    time.Duration       `json:"elapsed"`
	StoredAt   time.Time           `json:"stored_at"`
}

// Seconds returns the task duration in seconds, the unit shown for the
// statistics and similarity workflows.
func (e Entry) Seconds() float64 { return e.Elapsed.Seconds() }

// Minutes returns the task duration in minutes, the unit shown for the
// survival workflow.
func (e Entry) Minutes() float64 { return e.Elapsed.Minutes() }

// Cache holds the latest accepted result entry per workflow.  Writes carry a
// generation counter; an entry older than the cached one is rejected rather
// than silently overwriting newer data.  Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[task.Workflow]Entry
	live    map[task.Workflow]uint64
	durable DurableStore
	logger  logging.Logger
}

// NewCache builds a Cache.  durable may be nil; logger may be nil.
func NewCache(durable DurableStore, logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Cache{
		entries: make(map[task.Workflow]Entry),
		live:    make(map[task.Workflow]uint64),
		durable: durable,
		logger:  logger,
	}
}

// Advance records gen as w's live generation.  Stores older than the live
// generation are rejected even while nothing newer has been cached yet, so a
// superseded poll can never seed an empty cache (or the durable tier) with a
// stale entry.
func (c *Cache) Advance(w task.Workflow, gen uint64) {
	c.mu.Lock()
	if gen > c.live[w] {
		c.live[w] = gen
	}
	c.mu.Unlock()
}

// Store accepts e unless a newer generation is already cached or live for the
// workflow.  Re-storing the same generation is permitted (polls are
// idempotent).  The durable tier is written best-effort.
func (c *Cache) Store(ctx context.Context, e Entry) error {
	c.mu.Lock()
	floor := c.live[e.Workflow]
	if cur, ok := c.entries[e.Workflow]; ok && cur.Generation > floor {
		floor = cur.Generation
	}
	if e.Generation < floor {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeStaleResult, "result belongs to a superseded task").
			WithDetail(fmt.Sprintf("workflow=%s generation=%d current=%d", e.Workflow, e.Generation, floor))
	}
	c.entries[e.Workflow] = e
	c.mu.Unlock()

	if c.durable != nil {
		if err := c.durable.Put(ctx, e); err != nil {
			c.logger.Warn("durable cache write failed",
				logging.String("workflow", string(e.Workflow)),
				logging.Err(err))
		}
	}
	return nil
}

// Get returns the cached entry for w.  On a memory miss the durable tier is
// consulted and re-warmed into memory.  A miss on both tiers yields
// ErrCodeResultMissing.
func (c *Cache) Get(ctx context.Context, w task.Workflow) (Entry, error) {
	c.mu.RLock()
	e, ok := c.entries[w]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	if c.durable != nil {
		if de, err := c.durable.Fetch(ctx, w); err != nil {
			c.logger.Warn("durable cache read failed",
				logging.String("workflow", string(w)),
				logging.Err(err))
		} else if de != nil {
			c.mu.Lock()
			if _, raced := c.entries[w]; !raced {
				c.entries[w] = *de
			}
			e = c.entries[w]
			c.mu.Unlock()
			return e, nil
		}
	}

	return Entry{}, errors.New(errors.ErrCodeResultMissing, "no cached result for workflow").
		WithDetail("workflow=" + string(w))
}

// Generation returns the generation of the cached entry for w, or zero when
// nothing is cached.
func (c *Cache) Generation(w task.Workflow) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[w].Generation
}

//Personal.AI order the ending
