// Package allocation implements the seat allocation engine: seat
// geometry, the seeded roster shuffle and the constraint-satisfying
// solver.  Everything in this package is pure computation — no I/O, no
// clock, no ambient randomness — so a run is reproducible from its
// inputs alone.
package allocation

import "sort"

// Numbering selects how a seat's (row, column) maps to its display number.
type Numbering string

const (
	NumberingRowMajor    Numbering = "ROW_MAJOR"
	NumberingColumnMajor Numbering = "COLUMN_MAJOR"
)

// Strictness controls what happens to adjacency conflicts the solver
// cannot repair: HARD fails the whole run, SOFT records them.
type Strictness string

const (
	StrictnessHard Strictness = "HARD"
	StrictnessSoft Strictness = "SOFT"
)

// Hall is the geometry of one room as seen by the engine.
type Hall struct {
	ID   uint64
	Name string
	Rows uint32
	Cols uint32
}

// Seat is one position in the seat universe.  Row and Col are 1-indexed;
// Number is the display number under the run's numbering scheme.
type Seat struct {
	HallID uint64
	Row    uint32
	Col    uint32
	Number uint32
}

// SeatNumber converts a 1-indexed (row, col) position into a display
// number.  ROW_MAJOR numbers left-to-right then top-to-bottom;
// COLUMN_MAJOR numbers top-to-bottom then left-to-right.
func SeatNumber(row, col, rows, cols uint32, scheme Numbering) uint32 {
	if scheme == NumberingColumnMajor {
		return (col-1)*rows + row
	}
	return (row-1)*cols + col
}

// Adjacent reports whether two seats are 4-directional neighbours within
// the same hall.  Diagonal seats are not adjacent, and seats in
// different halls are never adjacent.
func Adjacent(a, b Seat) bool {
	if a.HallID != b.HallID {
		return false
	}
	dr := diff(a.Row, b.Row)
	dc := diff(a.Col, b.Col)
	return (dr == 1 && dc == 0) || (dr == 0 && dc == 1)
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// Capacity returns the total number of seats across the given halls.
func Capacity(halls []Hall) int {
	total := 0
	for _, h := range halls {
		total += int(h.Rows) * int(h.Cols)
	}
	return total
}

// EnumerateSeats produces the seat universe in fill order.  Halls are
// visited sorted by name then id; within a hall, seats are visited in
// increasing seat-number order for the given scheme.  This order is part
// of the run's determinism contract, so callers must not re-sort.
func EnumerateSeats(halls []Hall, scheme Numbering) []Seat {
	ordered := make([]Hall, len(halls))
	copy(ordered, halls)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	seats := make([]Seat, 0, Capacity(ordered))
	for _, h := range ordered {
		if scheme == NumberingColumnMajor {
			for col := uint32(1); col <= h.Cols; col++ {
				for row := uint32(1); row <= h.Rows; row++ {
					seats = append(seats, Seat{
						HallID: h.ID,
						Row:    row,
						Col:    col,
						Number: SeatNumber(row, col, h.Rows, h.Cols, scheme),
					})
				}
			}
			continue
		}
		for row := uint32(1); row <= h.Rows; row++ {
			for col := uint32(1); col <= h.Cols; col++ {
				seats = append(seats, Seat{
					HallID: h.ID,
					Row:    row,
					Col:    col,
					Number: SeatNumber(row, col, h.Rows, h.Cols, scheme),
				})
			}
		}
	}
	return seats
}
