package redis

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/application/workflow"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
)

// Point HEALTHAI_TEST_REDIS_ADDR at a live Redis to enable these tests.
func integrationStore(t *testing.T) *ResultStore {
	t.Helper()
	addr := os.Getenv("HEALTHAI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("HEALTHAI_TEST_REDIS_ADDR not set; skipping integration test")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	client := NewClientWithRedis(rdb, logging.NewNopLogger())
	t.Cleanup(func() { client.Close() })
	return NewResultStore(client, logging.NewNopLogger(),
		WithPrefix("healthai-test:"), WithTTL(time.Minute))
}

func TestResultStore_PutFetchRoundTrip(t *testing.T) {
	store := integrationStore(t)
	ctx := context.Background()

	entry := workflow.Entry{
		Workflow:   task.WorkflowSimilarity,
		Generation: 3,
		TaskID:     42,
		RequestID:  "req-1",
		Records: []task.ResultRecord{
			{Organization: 2, Result: json.RawMessage(`{"centroids": [[1,0,0]], "profiles": [[0.9]]}`)},
		},
		Elapsed:  90 * time.Second,
		StoredAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Put(ctx, entry))
	t.Cleanup(func() { store.Invalidate(ctx, task.WorkflowSimilarity) })

	got, err := store.Fetch(ctx, task.WorkflowSimilarity)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Generation, got.Generation)
	assert.Equal(t, entry.TaskID, got.TaskID)
	assert.JSONEq(t, string(entry.Records[0].Result), string(got.Records[0].Result))
}

func TestResultStore_FetchMissReturnsNil(t *testing.T) {
	store := integrationStore(t)

	got, err := store.Fetch(context.Background(), task.Workflow("absent"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

//Personal.AI order the ending
