package allocation

import "errors"

// ErrCapacityExceeded is returned when the roster is larger than the
// seat universe.  Nothing is placed in that case.
var ErrCapacityExceeded = errors.New("roster exceeds total seat capacity")

// ErrUnresolvedConflicts is returned by hard-mode solves that finished
// with adjacency conflicts the lookahead could not repair.  The partial
// result is still returned alongside the error so callers can report
// conflict counts, but it must never be persisted.
var ErrUnresolvedConflicts = errors.New("unresolved adjacency conflicts")

// DefaultSoftWindow is the forward-search bound used by soft-mode repair
// when no explicit window is configured.  Hard mode always scans the
// full remaining roster.
const DefaultSoftWindow = 16

// Student is one roster entry as seen by the solver.  Key is the
// separation key from the cohort classifier; students sharing a
// non-empty key may not sit adjacent.  An empty key disables separation
// for that student.
type Student struct {
	ID  uint64
	Key string
}

// Placement seats one student.
type Placement struct {
	Student Student
	Seat    Seat
}

// ConflictPair records one violated adjacency: the placements at indices
// A and B (into Result.Placements) share Key and sit on adjacent seats.
type ConflictPair struct {
	A   int
	B   int
	Key string
}

// Result is a complete solve: one placement per roster entry, plus any
// adjacency conflicts that were recorded rather than repaired.
type Result struct {
	Placements []Placement
	Conflicts  []ConflictPair
}

type seatPos struct {
	hall uint64
	row  uint32
	col  uint32
}

// Solve places the already-shuffled roster onto the seat universe in
// enumeration order, repairing adjacency conflicts by a bounded forward
// search through the remaining queue (a swap to the front).  Given the
// same roster order, seats and window, the outcome is byte-identical.
//
// In SOFT mode an unrepairable conflict is recorded and the student is
// seated anyway.  In HARD mode the same bookkeeping happens, but any
// conflict surviving to the end fails the whole solve with
// ErrUnresolvedConflicts: hard mode is all-or-nothing.
func Solve(students []Student, seats []Seat, strict Strictness, softWindow int) (*Result, error) {
	if len(students) > len(seats) {
		return nil, ErrCapacityExceeded
	}
	if softWindow <= 0 {
		softWindow = DefaultSoftWindow
	}

	// Index the universe so neighbours resolve in O(1).
	index := make(map[seatPos]int, len(seats))
	for i, s := range seats {
		index[seatPos{s.HallID, s.Row, s.Col}] = i
	}
	neighbours := func(i int) []int {
		s := seats[i]
		out := make([]int, 0, 4)
		for _, p := range [4]seatPos{
			{s.HallID, s.Row - 1, s.Col},
			{s.HallID, s.Row + 1, s.Col},
			{s.HallID, s.Row, s.Col - 1},
			{s.HallID, s.Row, s.Col + 1},
		} {
			if j, ok := index[p]; ok {
				out = append(out, j)
			}
		}
		return out
	}

	queue := make([]Student, len(students))
	copy(queue, students)

	placedAt := make([]int, len(seats)) // seat index -> placement index
	for i := range placedAt {
		placedAt[i] = -1
	}
	keyAt := make([]string, len(seats)) // seat index -> seated key

	// conflictsWith lists the already-filled neighbour seats of seat si
	// whose occupant shares the given key.
	conflictsWith := func(si int, key string) []int {
		if key == "" {
			return nil
		}
		var hit []int
		for _, nb := range neighbours(si) {
			if placedAt[nb] >= 0 && keyAt[nb] == key {
				hit = append(hit, nb)
			}
		}
		return hit
	}

	res := &Result{Placements: make([]Placement, 0, len(queue))}

	head := 0
	for si := 0; si < len(seats) && head < len(queue); si++ {
		if len(conflictsWith(si, queue[head].Key)) > 0 {
			// Bounded forward search for a conflict-free candidate.
			bound := len(queue)
			if strict == StrictnessSoft && head+1+softWindow < bound {
				bound = head + 1 + softWindow
			}
			for j := head + 1; j < bound; j++ {
				if len(conflictsWith(si, queue[j].Key)) == 0 {
					queue[head], queue[j] = queue[j], queue[head]
					break
				}
			}
		}

		st := queue[head]
		pi := len(res.Placements)
		res.Placements = append(res.Placements, Placement{Student: st, Seat: seats[si]})
		for _, nb := range conflictsWith(si, st.Key) {
			res.Conflicts = append(res.Conflicts, ConflictPair{
				A:   placedAt[nb],
				B:   pi,
				Key: st.Key,
			})
		}
		placedAt[si] = pi
		keyAt[si] = st.Key
		head++
	}

	if strict == StrictnessHard && len(res.Conflicts) > 0 {
		return res, ErrUnresolvedConflicts
	}
	return res, nil
}
