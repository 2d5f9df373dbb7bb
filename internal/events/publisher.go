// Package events publishes job lifecycle events to Kafka. Without
// configured brokers the publisher runs in log-only mode so consumers of
// the daemon logs still see the lifecycle stream.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/metrics"
	"lectern/internal/registry"
)

// Lifecycle event types carried in the envelope and the eventType header.
const (
	TypeJobCreated   = "job_created"
	TypeJobCompleted = "job_completed"
	TypeJobFailed    = "job_failed"
)

// Envelope is the wire form of one lifecycle event.
type Envelope struct {
	EventType  string    `json:"event_type"`
	JobID      string    `json:"job_id"`
	Owner      string    `json:"owner,omitempty"`
	Action     string    `json:"action,omitempty"`
	Status     string    `json:"status"`
	Progress   string    `json:"progress,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits lifecycle events for registry jobs.
type Publisher struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
	logger  *slog.Logger
	metrics *metrics.Metrics
	write   func(ctx context.Context, msgs ...kafka.Message) error
}

// NewPublisher builds a publisher from the events configuration. With no
// brokers the publisher stays in log-only mode.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	logger = logging.NewComponentLogger(logger, "events")

	if !cfg.EventsEnabled() {
		logger.Debug("kafka brokers not configured, lifecycle events are log-only")
		return &Publisher{topic: cfg.Events.Topic, logger: logger, metrics: metrics.Default}
	}

	// The hash balancer keeps every event for a job on one partition so
	// consumers observe lifecycle order.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Events.Brokers...),
		Topic:        cfg.Events.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("kafka lifecycle publisher initialized",
		logging.Any("brokers", cfg.Events.Brokers),
		logging.String("topic", cfg.Events.Topic))

	return &Publisher{
		writer:  writer,
		topic:   cfg.Events.Topic,
		enabled: true,
		logger:  logger,
		metrics: metrics.Default,
		write:   writer.WriteMessages,
	}
}

// Enabled reports whether events reach a broker.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// JobCreated publishes a creation event for a freshly registered job.
func (p *Publisher) JobCreated(ctx context.Context, job *registry.Job) error {
	return p.publish(ctx, TypeJobCreated, job)
}

// JobCompleted publishes a completion event.
func (p *Publisher) JobCompleted(ctx context.Context, job *registry.Job) error {
	return p.publish(ctx, TypeJobCompleted, job)
}

// JobFailed publishes a failure event.
func (p *Publisher) JobFailed(ctx context.Context, job *registry.Job) error {
	return p.publish(ctx, TypeJobFailed, job)
}

func (p *Publisher) publish(ctx context.Context, eventType string, job *registry.Job) error {
	if job == nil {
		return nil
	}

	envelope := Envelope{
		EventType:  eventType,
		JobID:      job.ID,
		Owner:      job.Owner,
		Action:     string(job.ActionType),
		Status:     string(job.Status),
		Progress:   job.Progress,
		Error:      job.ErrorMessage,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	p.logger.Debug("lifecycle event",
		logging.String(logging.FieldEventType, eventType),
		logging.String(logging.FieldJobID, job.ID),
		logging.String("status", string(job.Status)))

	if !p.enabled || p.write == nil {
		p.metrics.RecordEventPublish(eventType, nil)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(job.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
		},
	}

	err = p.write(ctx, msg)
	p.metrics.RecordEventPublish(eventType, err)
	if err != nil {
		p.logger.Warn("lifecycle event publish failed",
			logging.String(logging.FieldEventType, eventType),
			logging.String(logging.FieldJobID, job.ID),
			logging.Error(err))
		return err
	}
	return nil
}

// Close releases the Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
