package allocation

import (
	"errors"
	"testing"
)

func grid(rows, cols uint32, scheme Numbering) []Seat {
	return EnumerateSeats([]Hall{{ID: 1, Name: "A", Rows: rows, Cols: cols}}, scheme)
}

// checkSeating asserts the structural invariants every successful solve
// must hold: every student seated exactly once, every seat used at most
// once.
func checkSeating(t *testing.T, students []Student, res *Result) {
	t.Helper()
	if len(res.Placements) != len(students) {
		t.Fatalf("placed %d students, want %d", len(res.Placements), len(students))
	}
	seenStudent := make(map[uint64]bool)
	seenSeat := make(map[seatPos]bool)
	for _, p := range res.Placements {
		if seenStudent[p.Student.ID] {
			t.Fatalf("student %d seated twice", p.Student.ID)
		}
		seenStudent[p.Student.ID] = true
		pos := seatPos{p.Seat.HallID, p.Seat.Row, p.Seat.Col}
		if seenSeat[pos] {
			t.Fatalf("seat %+v used twice", pos)
		}
		seenSeat[pos] = true
	}
}

func adjacentSameKey(res *Result) int {
	n := 0
	for i := range res.Placements {
		for j := i + 1; j < len(res.Placements); j++ {
			a, b := res.Placements[i], res.Placements[j]
			if a.Student.Key != "" && a.Student.Key == b.Student.Key && Adjacent(a.Seat, b.Seat) {
				n++
			}
		}
	}
	return n
}

func TestSolveTwoByTwoHardSeparates(t *testing.T) {
	// The worst interleaving: both X students arrive first.
	students := []Student{
		{ID: 1, Key: "X"}, {ID: 2, Key: "X"},
		{ID: 3, Key: "Y"}, {ID: 4, Key: "Y"},
	}
	seats := grid(2, 2, NumberingRowMajor)

	res, err := Solve(students, seats, StrictnessHard, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	checkSeating(t, students, res)
	if len(res.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %d", len(res.Conflicts))
	}
	if n := adjacentSameKey(res); n != 0 {
		t.Errorf("%d adjacent same-key pairs in a solvable grid", n)
	}
}

func TestSolveLineHardUnresolvable(t *testing.T) {
	students := []Student{
		{ID: 1, Key: "X"}, {ID: 2, Key: "X"},
		{ID: 3, Key: "X"}, {ID: 4, Key: "X"},
	}
	seats := grid(1, 4, NumberingRowMajor)

	res, err := Solve(students, seats, StrictnessHard, 0)
	if !errors.Is(err, ErrUnresolvedConflicts) {
		t.Fatalf("err = %v, want ErrUnresolvedConflicts", err)
	}
	// The partial result is still returned for reporting.
	if res == nil || len(res.Conflicts) != 3 {
		t.Fatalf("expected partial result with 3 conflicts, got %+v", res)
	}
}

func TestSolveLineSoftRecordsEachPair(t *testing.T) {
	students := []Student{
		{ID: 1, Key: "X"}, {ID: 2, Key: "X"},
		{ID: 3, Key: "X"}, {ID: 4, Key: "X"},
	}
	seats := grid(1, 4, NumberingRowMajor)

	res, err := Solve(students, seats, StrictnessSoft, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	checkSeating(t, students, res)
	if len(res.Conflicts) != 3 {
		t.Fatalf("expected exactly 3 conflicts, got %d", len(res.Conflicts))
	}
	for _, c := range res.Conflicts {
		if c.Key != "X" {
			t.Errorf("conflict key = %q, want X", c.Key)
		}
		a, b := res.Placements[c.A], res.Placements[c.B]
		if !Adjacent(a.Seat, b.Seat) {
			t.Errorf("conflict pair %d/%d not adjacent", c.A, c.B)
		}
	}
}

func TestSolveCapacityExceeded(t *testing.T) {
	students := roster(5)
	seats := grid(2, 2, NumberingRowMajor)

	res, err := Solve(students, seats, StrictnessSoft, 0)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
	if res != nil {
		t.Error("capacity failure must place nothing")
	}
}

func TestSolveEmptyKeyNeverConflicts(t *testing.T) {
	students := roster(9) // all keys empty
	seats := grid(3, 3, NumberingRowMajor)

	res, err := Solve(students, seats, StrictnessHard, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("empty keys must not conflict, got %d", len(res.Conflicts))
	}
}

func TestSolveDeterministic(t *testing.T) {
	base := make([]Student, 30)
	for i := range base {
		key := "A"
		if i%3 == 0 {
			key = "B"
		}
		base[i] = Student{ID: uint64(i + 1), Key: key}
	}
	students := Shuffle(base, "fixed-seed")
	seats := grid(6, 6, NumberingRowMajor)

	first, err := Solve(students, seats, StrictnessSoft, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	second, err := Solve(students, seats, StrictnessSoft, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(first.Placements) != len(second.Placements) {
		t.Fatal("placement counts diverged")
	}
	for i := range first.Placements {
		if first.Placements[i] != second.Placements[i] {
			t.Fatalf("placement %d diverged: %+v vs %+v", i, first.Placements[i], second.Placements[i])
		}
	}
	if len(first.Conflicts) != len(second.Conflicts) {
		t.Fatal("conflict counts diverged")
	}
}

func TestSolveDoesNotMutateRoster(t *testing.T) {
	students := []Student{
		{ID: 1, Key: "X"}, {ID: 2, Key: "X"},
		{ID: 3, Key: "Y"}, {ID: 4, Key: "Y"},
	}
	seats := grid(2, 2, NumberingRowMajor)
	if _, err := Solve(students, seats, StrictnessHard, 0); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	want := []uint64{1, 2, 3, 4}
	for i, s := range students {
		if s.ID != want[i] {
			t.Fatalf("roster mutated at index %d", i)
		}
	}
}
