package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/examind/seatplan/internal/model"
)

// Publisher sends run events to RabbitMQ.  It dials per publish, which
// keeps it robust against broker restarts at the cost of connection
// setup on a path that is already seconds-scale (a background solve).
// It satisfies both service.Dispatcher and service.Notifier.
type Publisher struct {
	url string
	log *zap.Logger
}

// NewPublisher constructs a Publisher for the given broker URL.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// DispatchRun enqueues a run for the background worker.  Unlike
// completion events this is not best-effort: if the message cannot be
// queued the caller must know, because nobody would ever execute the
// run.
func (p *Publisher) DispatchRun(ctx context.Context, run *model.AllocationRun) error {
	ev := RunRequestedEvent{
		RunID:       run.ID,
		ExamID:      run.ExamID,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, RunRequestedQueue, ev)
}

// RunFinished publishes a completion event.  Best effort: a publish
// failure is logged and swallowed so it can never fail the run itself.
func (p *Publisher) RunFinished(ctx context.Context, run *model.AllocationRun) {
	ev := RunCompletedEvent{
		RunID:         run.ID,
		ExamID:        run.ExamID,
		Status:        run.Status,
		FailureReason: run.FailureReason,
	}
	if run.ResultMeta != nil {
		ev.ConflictCount = run.ResultMeta.ConflictCount
	}
	if run.CompletedAt != nil {
		ev.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}
	if err := p.publish(ctx, RunCompletedQueue, ev); err != nil {
		p.log.Warn("run completion event dropped",
			zap.Uint64("run_id", run.ID), zap.Error(err))
	}
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
