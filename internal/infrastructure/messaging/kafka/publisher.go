package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/onconet/healthai/internal/config"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/internal/infrastructure/monitoring/logging"
	"github.com/onconet/healthai/pkg/errors"
)

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits lifecycle events to Kafka.  It implements the
// orchestrator's EventPublisher port; messages are keyed by workflow so each
// workflow's events stay ordered within a partition.
type Publisher struct {
	writer WriterInterface
	logger logging.Logger
	closed atomic.Bool
}

// NewPublisher builds a Publisher over the configured brokers.
func NewPublisher(cfg config.KafkaConfig, log logging.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers are required")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	maxAttempts := cfg.MaxRetries + 1
	if maxAttempts <= 1 {
		maxAttempts = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  maxAttempts,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: writer, logger: log}, nil
}

// NewPublisherWithWriter wraps an existing writer (for testing).
func NewPublisherWithWriter(writer WriterInterface, log logging.Logger) *Publisher {
	return &Publisher{writer: writer, logger: log}
}

// PublishSubmitted emits a task-submitted event.
func (p *Publisher) PublishSubmitted(ctx context.Context, h task.Handle) error {
	return p.publish(ctx, TopicTaskSubmitted, newEnvelope("task.submitted", h))
}

// PublishCompleted emits a task-completed event carrying the elapsed duration.
func (p *Publisher) PublishCompleted(ctx context.Context, h task.Handle, elapsed time.Duration) error {
	env := newEnvelope("task.completed", h)
	env.ElapsedMs = elapsed.Milliseconds()
	return p.publish(ctx, TopicTaskCompleted, env)
}

// PublishFailed emits a task-failed event with the failure reason.
func (p *Publisher) PublishFailed(ctx context.Context, h task.Handle, reason string) error {
	env := newEnvelope("task.failed", h)
	env.Reason = reason
	return p.publish(ctx, TopicTaskFailed, env)
}

func (p *Publisher) publish(ctx context.Context, topic string, env EventEnvelope) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeInternal, "publisher closed")
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode lifecycle event")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(env.Workflow),
		Value: value,
		Time:  env.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish lifecycle event")
	}

	p.logger.Debug("lifecycle event published",
		logging.String("topic", topic),
		logging.String("workflow", string(env.Workflow)),
		logging.Int("task_id", env.TaskID))
	return nil
}

// Close shuts down the underlying writer.  Safe to call more than once.
func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

//Personal.AI order the ending
