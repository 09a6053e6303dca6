package service

import (
	"strconv"

	"github.com/examind/seatplan/internal/repository"
)

// SeparationKeyFunc derives a student's separation key: students sharing
// a non-empty key must not sit adjacent.  The function is pluggable so
// an exam can swap in a different separation policy without touching the
// solver; an empty key disables separation for that student.
type SeparationKeyFunc func(e repository.RosterEntry) string

// CohortKey is the default policy: class level plus department, so two
// students from the same class/department cohort are kept apart.
func CohortKey(e repository.RosterEntry) string {
	return strconv.FormatUint(e.ClassID, 10) + ":" + strconv.FormatUint(e.DepartmentID, 10)
}

// NoSeparation disables cohort separation entirely; the solver
// degenerates to a plain sequential fill with no conflicts possible.
// Useful for single-subject exams where every candidate shares a cohort.
func NoSeparation(repository.RosterEntry) string {
	return ""
}
