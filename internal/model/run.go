package model

import "time"

// Status values an allocation run moves through.  Transitions are
// single-direction: PENDING -> RUNNING -> COMPLETED or FAILED, exactly
// once.  A failed run is terminal and is never re-executed in place;
// regeneration creates a brand-new run with a fresh seed.
const (
	RunStatusPending   = "PENDING"
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// Run modes.  AUTO shuffles the roster with the stored seed and applies
// the cohort separation policy; MANUAL fills seats in roster order with
// separation disabled, producing a baseline plan for hand editing.
const (
	RunModeAuto   = "AUTO"
	RunModeManual = "MANUAL"
)

// Seat numbering schemes.  The scheme converts a seat's (row, column)
// into the display number printed on the plan; it is independent of the
// assignment algorithm.
const (
	NumberingRowMajor    = "ROW_MAJOR"
	NumberingColumnMajor = "COLUMN_MAJOR"
)

// Adjacency strictness.  HARD runs fail outright when any adjacency
// conflict survives the solver's repair; SOFT runs complete and record
// the conflicts for review.
const (
	StrictnessHard = "HARD"
	StrictnessSoft = "SOFT"
)

// Failure reasons persisted on a FAILED run so the cause stays auditable.
const (
	FailureNoActiveHalls       = "NO_ACTIVE_HALLS"
	FailureEmptyRoster         = "EMPTY_ROSTER"
	FailureCapacityExceeded    = "CAPACITY_EXCEEDED"
	FailureUnresolvedConflicts = "UNRESOLVED_HARD_CONFLICTS"
)

// AllocationRun is one deterministic attempt to seat an exam's cohort.
// Settings, including the shuffle seed, are fixed at creation and never
// mutated; two runs sharing seed, roster, halls and settings produce
// identical output.
//
// Fields:
//  ID                  – primary key identifier.
//  ExamID              – exam whose roster is being seated.
//  CreatedBy           – user who requested the run.
//  ShuffleSeed         – opaque seed string, the sole entropy source.
//  Mode                – AUTO or MANUAL.
//  SeatNumbering       – ROW_MAJOR or COLUMN_MAJOR.
//  AdjacencyStrictness – HARD or SOFT.
//  Notes               – free text attached by the requester.
//  Status              – PENDING, RUNNING, COMPLETED or FAILED.
//  FailureReason       – structured reason when Status is FAILED.
//  ResultMeta          – summary written at completion (JSON column).
//  CompletedAt         – set when the run reaches a terminal state.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type AllocationRun struct {
	ID                  uint64         // allocation_runs.id
	ExamID              uint64         // allocation_runs.exam_id
	CreatedBy           uint64         // allocation_runs.created_by
	ShuffleSeed         string         // allocation_runs.shuffle_seed
	Mode                string         // allocation_runs.mode
	SeatNumbering       string         // allocation_runs.seat_numbering
	AdjacencyStrictness string         // allocation_runs.adjacency_strictness
	Notes               *string        // allocation_runs.notes (nullable)
	Status              string         // allocation_runs.status
	FailureReason       *string        // allocation_runs.failure_reason (nullable)
	ResultMeta          *RunResultMeta // allocation_runs.result_meta (nullable JSON)
	CompletedAt         *time.Time     // allocation_runs.completed_at (nullable)
	CreatedAt           time.Time      // allocation_runs.created_at
	UpdatedAt           time.Time      // allocation_runs.updated_at
}

// RunResultMeta summarises a finished run for polling clients without
// forcing them to load the full plan.
type RunResultMeta struct {
	StudentsPlaced int `json:"students_placed"`
	SeatsTotal     int `json:"seats_total"`
	HallsUsed      int `json:"halls_used"`
	ConflictCount  int `json:"conflict_count"`
	ReservedHint   int `json:"reserved_seats_hint,omitempty"`
}

// Terminal reports whether the run has reached a final state.
func (r *AllocationRun) Terminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
