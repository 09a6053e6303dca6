// Package repository holds the data access layer.  This file defines
// sentinel errors shared across repositories so that services and
// handlers can distinguish failure scenarios with errors.Is instead of
// string matching.
package repository

import "errors"

// ErrRunNotFound is returned when an allocation run lookup yields no rows.
var ErrRunNotFound = errors.New("allocation run not found")

// ErrHallNotFound is returned when a hall lookup yields no rows.
var ErrHallNotFound = errors.New("hall not found")

// ErrAllocationNotFound is returned when an allocation lookup yields no rows.
var ErrAllocationNotFound = errors.New("allocation not found")

// ErrConflictNotFound is returned when a seat conflict lookup yields no rows.
var ErrConflictNotFound = errors.New("seat conflict not found")

// ErrRunNotPending is returned when a pending->running transition finds
// the run in any other state.  The run state machine moves in one
// direction exactly once, so a duplicate execute attempt lands here.
var ErrRunNotPending = errors.New("run is not pending")

// ErrSeatOccupied is returned when a seat claim hits a cell already
// occupied by another allocation of the same run.
var ErrSeatOccupied = errors.New("seat already occupied")
