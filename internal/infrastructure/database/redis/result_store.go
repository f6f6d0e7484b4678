package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/onconet/healthai/internal/application/workflow"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/pkg/errors"
)

// ResultStore implements the result cache's durable tier.  Entries are stored
// as JSON under one key per workflow; concurrent fetches of the same workflow
// are collapsed through singleflight.
type ResultStore struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// StoreOption configures a ResultStore.
type StoreOption func(*ResultStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) StoreOption {
	return func(s *ResultStore) { s.prefix = prefix }
}

// WithTTL overrides the entry expiry.  Zero disables expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *ResultStore) { s.ttl = ttl }
}

// NewResultStore builds a ResultStore over client.
func NewResultStore(client *Client, log logging.Logger, opts ...StoreOption) *ResultStore {
	s := &ResultStore{
		client: client,
		logger: log,
		prefix: "healthai:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResultStore) key(w task.Workflow) string {
	return s.prefix + "result:" + string(w)
}

// Put stores e, replacing any previous entry for the workflow.
func (s *ResultStore) Put(ctx context.Context, e workflow.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode result entry")
	}
	if err := s.client.Raw().Set(ctx, s.key(e.Workflow), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write result entry")
	}
	return nil
}

// Fetch returns the stored entry for w, or (nil, nil) when none exists.
func (s *ResultStore) Fetch(ctx context.Context, w task.Workflow) (*workflow.Entry, error) {
	v, err, _ := s.group.Do(string(w), func() (interface{}, error) {
		data, err := s.client.Raw().Get(ctx, s.key(w)).Bytes()
		if err == redis.Nil {
			return (*workflow.Entry)(nil), nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read result entry")
		}
		var e workflow.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode result entry")
		}
		return &e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*workflow.Entry), nil
}

// Invalidate removes the stored entry for w.
func (s *ResultStore) Invalidate(ctx context.Context, w task.Workflow) error {
	return s.client.Raw().Del(ctx, s.key(w)).Err()
}

//Personal.AI order the ending
