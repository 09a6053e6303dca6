package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/examind/seatplan/internal/allocation"
	"github.com/examind/seatplan/internal/repository"
	"github.com/examind/seatplan/internal/service"
)

func requestBody(t *testing.T, runID uint64) []byte {
	t.Helper()
	b, err := json.Marshal(RunRequestedEvent{RunID: runID, ExamID: 1, RequestedAt: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandleDeliverySuccess(t *testing.T) {
	var got uint64
	execute := func(_ context.Context, runID uint64) error {
		got = runID
		return nil
	}
	requeue, err := handleDelivery(requestBody(t, 42), execute, zap.NewNop())
	if err != nil || requeue {
		t.Fatalf("requeue=%v err=%v", requeue, err)
	}
	if got != 42 {
		t.Errorf("executed run %d, want 42", got)
	}
}

func TestHandleDeliveryMalformedBody(t *testing.T) {
	execute := func(context.Context, uint64) error {
		t.Fatal("execute must not run for malformed messages")
		return nil
	}
	requeue, err := handleDelivery([]byte("not json"), execute, zap.NewNop())
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
	if requeue {
		t.Error("malformed messages must not be requeued")
	}
}

func TestHandleDeliveryAcksRecordedFailures(t *testing.T) {
	// These outcomes are already persisted on the run; redelivery would
	// just bounce off the status guard.
	for _, cause := range []error{
		repository.ErrRunNotPending,
		repository.ErrRunNotFound,
		service.ErrNoActiveHalls,
		service.ErrEmptyRoster,
		allocation.ErrCapacityExceeded,
		allocation.ErrUnresolvedConflicts,
	} {
		execute := func(context.Context, uint64) error { return cause }
		requeue, err := handleDelivery(requestBody(t, 7), execute, zap.NewNop())
		if err != nil {
			t.Errorf("%v: err = %v, want nil", cause, err)
		}
		if requeue {
			t.Errorf("%v: must not requeue", cause)
		}
	}
}

func TestHandleDeliveryRequeuesInfrastructureErrors(t *testing.T) {
	cause := errors.New("connection reset")
	execute := func(context.Context, uint64) error { return cause }
	requeue, err := handleDelivery(requestBody(t, 7), execute, zap.NewNop())
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want %v", err, cause)
	}
	if !requeue {
		t.Error("infrastructure errors should be requeued")
	}
}
