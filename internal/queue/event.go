// Package queue defines the message payloads and the RabbitMQ plumbing
// for background run execution and completion events.
package queue

// Queue names.  Both queues are declared durable so runs survive a
// broker restart.
const (
	RunRequestedQueue = "allocation.run.requested"
	RunCompletedQueue = "allocation.run.completed"
)

// RunRequestedEvent asks the worker to execute a pending allocation run.
// The worker calls the same Execute operation the synchronous path uses.
type RunRequestedEvent struct {
	RunID       uint64 `json:"run_id"`
	ExamID      uint64 `json:"exam_id"`
	RequestedAt string `json:"requested_at"`
}

// RunCompletedEvent is published when a run reaches a terminal state.
// It carries enough for downstream consumers (notifiers, dashboards) to
// react without querying the primary database.
type RunCompletedEvent struct {
	RunID         uint64  `json:"run_id"`
	ExamID        uint64  `json:"exam_id"`
	Status        string  `json:"status"`
	FailureReason *string `json:"failure_reason,omitempty"`
	ConflictCount int     `json:"conflict_count"`
	CompletedAt   string  `json:"completed_at,omitempty"`
}
