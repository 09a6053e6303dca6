package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/examind/seatplan/internal/allocation"
	"github.com/examind/seatplan/internal/repository"
	"github.com/examind/seatplan/internal/service"
)

// ExecuteFunc runs one allocation run to completion.  The worker passes
// the orchestrator's Execute here; the solver never learns it was
// invoked out-of-band.
type ExecuteFunc func(ctx context.Context, runID uint64) error

// StartRunConsumer connects to RabbitMQ, declares the run-request queue
// and executes incoming runs.  It runs a reconnect loop with backoff and
// never returns under normal operation; dial failures are logged and
// retried so a broker restart does not kill the worker.
func StartRunConsumer(url string, execute ExecuteFunc, log *zap.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("run-consumer: broker dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, execute, log); err != nil {
			log.Warn("run-consumer: consume loop ended, reconnecting", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, execute ExecuteFunc, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// One solve at a time per worker; solves are CPU-bound.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Warn("run-consumer: set QoS failed", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(RunRequestedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(RunRequestedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if requeue, err := handleDelivery(d.Body, execute, log); err != nil {
			log.Error("run-consumer: run execution failed", zap.Error(err))
			_ = d.Nack(false, requeue)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// handleDelivery executes one queued run.  Domain failures (capacity,
// hard conflicts, missing halls) are already recorded on the run, so the
// message is acked; so are duplicate deliveries, which the guarded
// status transition rejects.  Only infrastructure errors are worth a
// requeue.
func handleDelivery(body []byte, execute ExecuteFunc, log *zap.Logger) (requeue bool, err error) {
	var ev RunRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return false, fmt.Errorf("unmarshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := execute(ctx, ev.RunID); err != nil {
		if errors.Is(err, repository.ErrRunNotPending) {
			log.Info("run-consumer: skipping duplicate delivery", zap.Uint64("run_id", ev.RunID))
			return false, nil
		}
		if errors.Is(err, repository.ErrRunNotFound) {
			log.Warn("run-consumer: run vanished", zap.Uint64("run_id", ev.RunID))
			return false, nil
		}
		// Terminal domain outcomes are persisted on the run by the
		// orchestrator; nothing left to do with the message.
		var reason string
		if recorded(err, &reason) {
			log.Info("run-consumer: run failed",
				zap.Uint64("run_id", ev.RunID), zap.String("reason", reason))
			return false, nil
		}
		return true, err
	}
	log.Info("run-consumer: run completed", zap.Uint64("run_id", ev.RunID))
	return false, nil
}

// recorded reports whether err is a domain failure the orchestrator has
// already persisted on the run, and names it.
func recorded(err error, reason *string) bool {
	switch {
	case errors.Is(err, service.ErrNoActiveHalls):
		*reason = "no active halls"
	case errors.Is(err, service.ErrEmptyRoster):
		*reason = "empty roster"
	case errors.Is(err, allocation.ErrCapacityExceeded):
		*reason = "capacity exceeded"
	case errors.Is(err, allocation.ErrUnresolvedConflicts):
		*reason = "unresolved hard conflicts"
	default:
		return false
	}
	return true
}
