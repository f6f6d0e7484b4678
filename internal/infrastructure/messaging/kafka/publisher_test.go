package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/pkg/errors"
)

// mockWriter captures written messages.
type mockWriter struct {
	messages []kafkago.Message
	writeErr error
	closed   bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func sampleHandle() task.Handle {
	return task.Handle{
		ID:          42,
		RequestID:   "req-1",
		Workflow:    task.WorkflowSurvival,
		Method:      "master",
		Generation:  2,
		SubmittedAt: time.Now().UTC(),
	}
}

func TestPublishSubmitted_WritesEnvelope(t *testing.T) {
	w := &mockWriter{}
	p := NewPublisherWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.PublishSubmitted(context.Background(), sampleHandle()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicTaskSubmitted, msg.Topic)
	assert.Equal(t, "survival", string(msg.Key))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "task.submitted", env.EventType)
	assert.Equal(t, 42, env.TaskID)
	assert.Equal(t, uint64(2), env.Generation)
	assert.NotEmpty(t, env.EventID)
}

func TestPublishCompleted_CarriesElapsed(t *testing.T) {
	w := &mockWriter{}
	p := NewPublisherWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.PublishCompleted(context.Background(), sampleHandle(), 90*time.Second))
	require.Len(t, w.messages, 1)
	assert.Equal(t, TopicTaskCompleted, w.messages[0].Topic)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &env))
	assert.Equal(t, int64(90000), env.ElapsedMs)
}

func TestPublishFailed_CarriesReason(t *testing.T) {
	w := &mockWriter{}
	p := NewPublisherWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.PublishFailed(context.Background(), sampleHandle(), "submission rejected"))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &env))
	assert.Equal(t, "submission rejected", env.Reason)
	assert.Equal(t, TopicTaskFailed, w.messages[0].Topic)
}

func TestPublish_WriteFailure(t *testing.T) {
	w := &mockWriter{writeErr: errors.Internal("broker down")}
	p := NewPublisherWithWriter(w, logging.NewNopLogger())

	err := p.PublishSubmitted(context.Background(), sampleHandle())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeExternalService, errors.GetCode(err))
}

func TestClose_RejectsFurtherPublishes(t *testing.T) {
	w := &mockWriter{}
	p := NewPublisherWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	require.NoError(t, p.Close()) // idempotent

	err := p.PublishSubmitted(context.Background(), sampleHandle())
	require.Error(t, err)
}

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher(config.KafkaConfig{}, logging.NewNopLogger())
	require.Error(t, err)
}

//Personal.AI order the ending
