// Package service owns the allocation run lifecycle and the manual edit
// guard.  It talks to storage through small interfaces so the engine can
// be exercised against in-memory stores in tests.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/examind/seatplan/internal/allocation"
	"github.com/examind/seatplan/internal/model"
	"github.com/examind/seatplan/internal/repository"
)

// ErrNoActiveHalls is returned when a run executes with no active hall
// to seat into.  User-correctable: add or activate a hall.
var ErrNoActiveHalls = errors.New("no active halls")

// ErrEmptyRoster is returned when the exam has no registered students.
var ErrEmptyRoster = errors.New("exam roster is empty")

// ErrInvalidSettings is returned when run settings carry an unknown
// mode, numbering scheme or strictness value.
var ErrInvalidSettings = errors.New("invalid run settings")

// RunStore is the persistence surface the orchestrator needs for runs.
type RunStore interface {
	Create(ctx context.Context, run *model.AllocationRun) error
	GetByID(ctx context.Context, id uint64) (*model.AllocationRun, error)
	MarkRunning(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64, reason string, meta *model.RunResultMeta) error
	SaveResult(ctx context.Context, runID uint64, allocs []*model.Allocation, pairs [][2]int, keys []string, meta *model.RunResultMeta) error
}

// HallStore loads hall geometry.
type HallStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Hall, error)
	ListActive(ctx context.Context) ([]*model.Hall, error)
}

// RosterStore loads an exam's registered students.
type RosterStore interface {
	ListByExam(ctx context.Context, examID uint64) ([]repository.RosterEntry, error)
}

// Dispatcher hands a run to the background worker.  A nil dispatcher
// means every run executes inline.
type Dispatcher interface {
	DispatchRun(ctx context.Context, run *model.AllocationRun) error
}

// Notifier receives best-effort completion events for external
// consumers (mailers, dashboards).  Publish failures never fail a run.
type Notifier interface {
	RunFinished(ctx context.Context, run *model.AllocationRun)
}

// RunSettings are the caller-supplied knobs fixed at run creation.
type RunSettings struct {
	Mode                string
	SeatNumbering       string
	AdjacencyStrictness string
	Notes               *string
}

// Validate checks the enum fields, defaulting empties to AUTO /
// ROW_MAJOR / SOFT.
func (s *RunSettings) Validate() error {
	switch s.Mode {
	case "":
		s.Mode = model.RunModeAuto
	case model.RunModeAuto, model.RunModeManual:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidSettings, s.Mode)
	}
	switch s.SeatNumbering {
	case "":
		s.SeatNumbering = model.NumberingRowMajor
	case model.NumberingRowMajor, model.NumberingColumnMajor:
	default:
		return fmt.Errorf("%w: seat_numbering %q", ErrInvalidSettings, s.SeatNumbering)
	}
	switch s.AdjacencyStrictness {
	case "":
		s.AdjacencyStrictness = model.StrictnessSoft
	case model.StrictnessHard, model.StrictnessSoft:
	default:
		return fmt.Errorf("%w: adjacency_strictness %q", ErrInvalidSettings, s.AdjacencyStrictness)
	}
	return nil
}

// Result is the outcome of a successful execution.
type Result struct {
	Run         *model.AllocationRun
	Allocations []*model.Allocation
}

// StartOutcome reports how Start handled a run: executed inline with a
// result, or accepted for background execution.
type StartOutcome struct {
	Async  bool
	Run    *model.AllocationRun
	Result *Result
}

// Orchestrator drives allocation runs from creation through execution.
type Orchestrator struct {
	runs     RunStore
	halls    HallStore
	roster   RosterStore
	dispatch Dispatcher
	notify   Notifier
	keyFn    SeparationKeyFunc

	asyncThreshold int
	softWindow     int
	log            *zap.Logger
}

// OrchestratorOpts bundles optional orchestrator collaborators.
type OrchestratorOpts struct {
	Dispatch       Dispatcher        // nil: always execute inline
	Notify         Notifier          // nil: no completion events
	KeyFn          SeparationKeyFunc // nil: CohortKey
	AsyncThreshold int               // <=0: never dispatch
	SoftWindow     int               // <=0: allocation.DefaultSoftWindow
}

// NewOrchestrator wires an orchestrator.  log must not be nil (use
// zap.NewNop in tests).
func NewOrchestrator(runs RunStore, halls HallStore, roster RosterStore, opts OrchestratorOpts, log *zap.Logger) *Orchestrator {
	keyFn := opts.KeyFn
	if keyFn == nil {
		keyFn = CohortKey
	}
	return &Orchestrator{
		runs:           runs,
		halls:          halls,
		roster:         roster,
		dispatch:       opts.Dispatch,
		notify:         opts.Notify,
		keyFn:          keyFn,
		asyncThreshold: opts.AsyncThreshold,
		softWindow:     opts.SoftWindow,
		log:            log,
	}
}

// CreateRun creates a PENDING run for the exam with a freshly generated
// shuffle seed.  Settings are immutable from here on.
func (o *Orchestrator) CreateRun(ctx context.Context, examID, creatorID uint64, settings RunSettings) (*model.AllocationRun, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	seed, err := allocation.NewSeed()
	if err != nil {
		return nil, err
	}
	run := &model.AllocationRun{
		ExamID:              examID,
		CreatedBy:           creatorID,
		ShuffleSeed:         seed,
		Mode:                settings.Mode,
		SeatNumbering:       settings.SeatNumbering,
		AdjacencyStrictness: settings.AdjacencyStrictness,
		Notes:               settings.Notes,
		Status:              model.RunStatusPending,
	}
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	o.log.Info("allocation run created",
		zap.Uint64("run_id", run.ID),
		zap.Uint64("exam_id", examID),
		zap.String("mode", run.Mode),
		zap.String("strictness", run.AdjacencyStrictness))
	return run, nil
}

// Regenerate creates a brand-new run carrying the source run's exam and
// settings but a fresh seed.  The source run is never mutated; a failed
// or superseded run stays on record.
func (o *Orchestrator) Regenerate(ctx context.Context, runID, creatorID uint64) (*model.AllocationRun, error) {
	src, err := o.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return o.CreateRun(ctx, src.ExamID, creatorID, RunSettings{
		Mode:                src.Mode,
		SeatNumbering:       src.SeatNumbering,
		AdjacencyStrictness: src.AdjacencyStrictness,
		Notes:               src.Notes,
	})
}

// Start executes a run inline when the roster is small, or hands it to
// the background worker when it crosses the async threshold.  Both paths
// end up in the same Execute; the solver never learns which one invoked
// it.
func (o *Orchestrator) Start(ctx context.Context, runID uint64) (*StartOutcome, error) {
	run, err := o.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != model.RunStatusPending {
		return nil, repository.ErrRunNotPending
	}

	if o.dispatch != nil && o.asyncThreshold > 0 {
		roster, err := o.roster.ListByExam(ctx, run.ExamID)
		if err != nil {
			return nil, err
		}
		if len(roster) >= o.asyncThreshold {
			if err := o.dispatch.DispatchRun(ctx, run); err != nil {
				return nil, err
			}
			o.log.Info("allocation run dispatched to worker",
				zap.Uint64("run_id", run.ID), zap.Int("roster_size", len(roster)))
			return &StartOutcome{Async: true, Run: run}, nil
		}
	}

	res, err := o.Execute(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &StartOutcome{Run: res.Run, Result: res}, nil
}

// Execute runs the full pipeline for a pending run: claim it, check
// preconditions, classify, shuffle, enumerate, solve, persist.  On any
// failure the run is marked FAILED with a structured reason and nothing
// else is persisted.  Execute is invoked identically by the sync path
// and the worker.
func (o *Orchestrator) Execute(ctx context.Context, runID uint64) (*Result, error) {
	run, err := o.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := o.runs.MarkRunning(ctx, run.ID); err != nil {
		return nil, err
	}

	halls, err := o.halls.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(halls) == 0 {
		return nil, o.fail(ctx, run, model.FailureNoActiveHalls, nil, ErrNoActiveHalls)
	}

	roster, err := o.roster.ListByExam(ctx, run.ExamID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, o.fail(ctx, run, model.FailureEmptyRoster, nil, ErrEmptyRoster)
	}

	grids := make([]allocation.Hall, len(halls))
	reserved := 0
	for i, h := range halls {
		grids[i] = allocation.Hall{ID: h.ID, Name: h.Name, Rows: h.SeatRows, Cols: h.SeatCols}
		reserved += int(h.ReservedSeats)
	}
	seats := allocation.EnumerateSeats(grids, allocation.Numbering(run.SeatNumbering))

	// MANUAL runs skip the shuffle and the separation policy: roster
	// order, plain fill, zero conflicts.  The office edits from there.
	keyFn := o.keyFn
	students := make([]allocation.Student, len(roster))
	if run.Mode == model.RunModeManual {
		keyFn = NoSeparation
	}
	for i, e := range roster {
		students[i] = allocation.Student{ID: e.StudentID, Key: keyFn(e)}
	}
	if run.Mode != model.RunModeManual {
		students = allocation.Shuffle(students, run.ShuffleSeed)
	}

	solved, err := allocation.Solve(students, seats, allocation.Strictness(run.AdjacencyStrictness), o.softWindow)
	if err != nil {
		meta := &model.RunResultMeta{
			SeatsTotal:   len(seats),
			HallsUsed:    len(halls),
			ReservedHint: reserved,
		}
		switch {
		case errors.Is(err, allocation.ErrCapacityExceeded):
			return nil, o.fail(ctx, run, model.FailureCapacityExceeded, meta, err)
		case errors.Is(err, allocation.ErrUnresolvedConflicts):
			meta.ConflictCount = len(solved.Conflicts)
			return nil, o.fail(ctx, run, model.FailureUnresolvedConflicts, meta, err)
		default:
			return nil, err
		}
	}

	allocs := make([]*model.Allocation, len(solved.Placements))
	hallsTouched := map[uint64]struct{}{}
	for i, p := range solved.Placements {
		allocs[i] = &model.Allocation{
			RunID:      run.ID,
			StudentID:  p.Student.ID,
			HallID:     p.Seat.HallID,
			RowNo:      p.Seat.Row,
			ColNo:      p.Seat.Col,
			SeatNumber: p.Seat.Number,
		}
		hallsTouched[p.Seat.HallID] = struct{}{}
	}
	pairs := make([][2]int, len(solved.Conflicts))
	keys := make([]string, len(solved.Conflicts))
	for i, c := range solved.Conflicts {
		pairs[i] = [2]int{c.A, c.B}
		keys[i] = c.Key
	}
	meta := &model.RunResultMeta{
		StudentsPlaced: len(allocs),
		SeatsTotal:     len(seats),
		HallsUsed:      len(hallsTouched),
		ConflictCount:  len(pairs),
		ReservedHint:   reserved,
	}

	if err := o.runs.SaveResult(ctx, run.ID, allocs, pairs, keys, meta); err != nil {
		return nil, err
	}
	completed, err := o.runs.GetByID(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	o.log.Info("allocation run completed",
		zap.Uint64("run_id", run.ID),
		zap.Int("students", meta.StudentsPlaced),
		zap.Int("conflicts", meta.ConflictCount))
	o.finished(ctx, completed)
	return &Result{Run: completed, Allocations: allocs}, nil
}

// fail records the terminal failure and returns cause so callers see the
// typed error.  A failed run persists nothing beyond its reason.
func (o *Orchestrator) fail(ctx context.Context, run *model.AllocationRun, reason string, meta *model.RunResultMeta, cause error) error {
	if err := o.runs.MarkFailed(ctx, run.ID, reason, meta); err != nil {
		o.log.Error("failed to record run failure",
			zap.Uint64("run_id", run.ID), zap.String("reason", reason), zap.Error(err))
		return err
	}
	o.log.Warn("allocation run failed",
		zap.Uint64("run_id", run.ID), zap.String("reason", reason))
	if failed, err := o.runs.GetByID(ctx, run.ID); err == nil {
		o.finished(ctx, failed)
	}
	return cause
}

func (o *Orchestrator) finished(ctx context.Context, run *model.AllocationRun) {
	if o.notify != nil {
		o.notify.RunFinished(ctx, run)
	}
}
