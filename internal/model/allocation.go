package model

import "time"

// Allocation is one seated student within one run.  Within a run the
// triple (hall, row, column) is unique; SeatNumber is derived from the
// position and the run's numbering scheme, never entered by hand.
//
// Fields:
//  ID         – primary key identifier.
//  RunID      – owning allocation run.
//  StudentID  – seated student.
//  HallID     – hall containing the seat.
//  RowNo      – 1-indexed row within the hall.
//  ColNo      – 1-indexed column within the hall.
//  SeatNumber – display number derived via the run's numbering scheme.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp (changes only via manual edits).
type Allocation struct {
	ID         uint64    // allocations.id
	RunID      uint64    // allocations.run_id
	StudentID  uint64    // allocations.student_id
	HallID     uint64    // allocations.hall_id
	RowNo      uint32    // allocations.row_no
	ColNo      uint32    // allocations.col_no
	SeatNumber uint32    // allocations.seat_number
	CreatedAt  time.Time // allocations.created_at
	UpdatedAt  time.Time // allocations.updated_at
}
