package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/examind/seatplan/internal/allocation"
	"github.com/examind/seatplan/internal/model"
)

// ErrOutOfBounds is returned when a reassignment targets a cell outside
// the hall's grid.
var ErrOutOfBounds = errors.New("seat out of hall bounds")

// ErrRunNotCompleted is returned when a reassignment targets a run that
// has not reached COMPLETED; plans are only hand-edited after the bulk
// computation is done.
var ErrRunNotCompleted = errors.New("run is not completed")

// AllocationStore is the persistence surface the edit guard needs.
// ClaimSeat must perform the occupancy check and the write atomically.
type AllocationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Allocation, error)
	ClaimSeat(ctx context.Context, allocationID, runID, hallID uint64, row, col, seatNumber uint32) (*model.Allocation, error)
}

// EditGuard validates and applies single-seat reassignments on completed
// runs.  It deliberately does not re-run adjacency detection: a manual
// move is the invigilation office overriding the engine.
type EditGuard struct {
	allocs AllocationStore
	runs   RunStore
	halls  HallStore
	locks  *redis.Client // optional; DB transaction is the definitive guard
	log    *zap.Logger
}

// NewEditGuard wires an edit guard.  locks may be nil, in which case
// serialization relies on the storage layer alone.
func NewEditGuard(allocs AllocationStore, runs RunStore, halls HallStore, locks *redis.Client, log *zap.Logger) *EditGuard {
	return &EditGuard{allocs: allocs, runs: runs, halls: halls, locks: locks, log: log}
}

// Reassign moves one allocation to (hallID, row, col), recomputing the
// seat number under the run's stored numbering scheme.  Occupancy is
// checked and written in one transaction, so two concurrent edits cannot
// both win an empty seat.
func (g *EditGuard) Reassign(ctx context.Context, allocationID, hallID uint64, row, col uint32) (*model.Allocation, error) {
	alloc, err := g.allocs.GetByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	run, err := g.runs.GetByID(ctx, alloc.RunID)
	if err != nil {
		return nil, err
	}
	if run.Status != model.RunStatusCompleted {
		return nil, ErrRunNotCompleted
	}
	hall, err := g.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if row < 1 || col < 1 || row > hall.SeatRows || col > hall.SeatCols {
		return nil, ErrOutOfBounds
	}
	seatNumber := allocation.SeatNumber(row, col, hall.SeatRows, hall.SeatCols,
		allocation.Numbering(run.SeatNumbering))

	unlock := g.lockRun(ctx, run.ID)
	defer unlock()

	updated, err := g.allocs.ClaimSeat(ctx, alloc.ID, alloc.RunID, hallID, row, col, seatNumber)
	if err != nil {
		return nil, err
	}
	g.log.Info("allocation reassigned",
		zap.Uint64("allocation_id", alloc.ID),
		zap.Uint64("run_id", run.ID),
		zap.Uint64("hall_id", hallID),
		zap.Uint32("row", row),
		zap.Uint32("col", col))
	return updated, nil
}

// lockRun takes a short per-run Redis lock so concurrent edits on the
// same plan queue up instead of racing to the database.  If Redis is
// absent or the lock cannot be acquired in time, the reassignment
// proceeds anyway: the transactional seat claim stays correct, the lock
// only reduces contention.
func (g *EditGuard) lockRun(ctx context.Context, runID uint64) func() {
	if g.locks == nil {
		return func() {}
	}
	key := fmt.Sprintf("seatplan:reassign:%d", runID)
	for attempt := 0; attempt < 20; attempt++ {
		ok, err := g.locks.SetNX(ctx, key, "1", 5*time.Second).Result()
		if err != nil {
			g.log.Warn("reassign lock unavailable", zap.Uint64("run_id", runID), zap.Error(err))
			return func() {}
		}
		if ok {
			return func() { _ = g.locks.Del(context.Background(), key).Err() }
		}
		select {
		case <-ctx.Done():
			return func() {}
		case <-time.After(50 * time.Millisecond):
		}
	}
	g.log.Warn("reassign lock busy, proceeding on storage guard alone", zap.Uint64("run_id", runID))
	return func() {}
}
