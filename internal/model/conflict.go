package model

import "time"

// SeatConflict records an adjacency violation left in place by a
// soft-mode run: two students sharing a separation key seated on
// adjacent seats.  Both referenced allocations belong to the same run.
// Conflicts are toggled to resolved by a reviewer; the engine itself
// never resolves them.
//
// Fields:
//  ID            – primary key identifier.
//  RunID         – owning allocation run.
//  AllocationA   – first conflicting allocation.
//  AllocationB   – second conflicting allocation.
//  SeparationKey – the shared cohort key that triggered the conflict.
//  Resolved      – whether a reviewer has signed the conflict off.
//  Reason        – optional reviewer note.
//  CreatedAt     – creation timestamp.
type SeatConflict struct {
	ID            uint64    // seat_conflicts.id
	RunID         uint64    // seat_conflicts.run_id
	AllocationA   uint64    // seat_conflicts.allocation_a
	AllocationB   uint64    // seat_conflicts.allocation_b
	SeparationKey string    // seat_conflicts.separation_key
	Resolved      bool      // seat_conflicts.resolved
	Reason        *string   // seat_conflicts.reason (nullable)
	CreatedAt     time.Time // seat_conflicts.created_at
}
