package repository

import (
	"context"
	"database/sql"
)

// RosterRepo loads the students registered for an exam.  Student CRUD
// lives in the surrounding system; the engine only reads the roster.
type RosterRepo struct {
	db *sql.DB
}

// NewRosterRepo constructs a RosterRepo with the given DB handle.
func NewRosterRepo(db *sql.DB) *RosterRepo {
	return &RosterRepo{db: db}
}

// RosterEntry is one registered student with the attributes the cohort
// classifier needs.
type RosterEntry struct {
	StudentID    uint64
	RegNo        string
	FullName     string
	ClassID      uint64
	DepartmentID uint64
}

// ListByExam returns the exam's roster ordered by student id.  The
// stable order matters: it is the solver's input before shuffling, so it
// is part of the determinism contract.
func (r *RosterRepo) ListByExam(ctx context.Context, examID uint64) ([]RosterEntry, error) {
	const q = `SELECT s.id, s.reg_no, s.full_name, s.class_id, s.department_id
	           FROM students s
	           JOIN exam_students es ON es.student_id = s.id
	           WHERE es.exam_id = ?
	           ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RosterEntry
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(&e.StudentID, &e.RegNo, &e.FullName, &e.ClassID, &e.DepartmentID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
