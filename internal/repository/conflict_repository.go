package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/examind/seatplan/internal/model"
)

// ConflictRepo reads recorded adjacency conflicts and lets reviewers
// resolve them.  Conflicts are created in bulk by RunRepo.SaveResult.
type ConflictRepo struct {
	db *sql.DB
}

// NewConflictRepo constructs a ConflictRepo with the given DB handle.
func NewConflictRepo(db *sql.DB) *ConflictRepo {
	return &ConflictRepo{db: db}
}

const conflictColumns = `id, run_id, allocation_a, allocation_b, separation_key, resolved, reason, created_at`

func scanConflict(row interface{ Scan(...any) error }) (*model.SeatConflict, error) {
	var c model.SeatConflict
	var reason sql.NullString
	err := row.Scan(&c.ID, &c.RunID, &c.AllocationA, &c.AllocationB, &c.SeparationKey,
		&c.Resolved, &reason, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		c.Reason = &reason.String
	}
	return &c, nil
}

// ListByRun returns every conflict recorded for a run, unresolved first.
func (r *ConflictRepo) ListByRun(ctx context.Context, runID uint64) ([]*model.SeatConflict, error) {
	const q = `SELECT ` + conflictColumns + ` FROM seat_conflicts
	           WHERE run_id = ?
	           ORDER BY resolved, id`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SeatConflict
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetResolved records a reviewer's decision on one conflict.  Returns
// ErrConflictNotFound when the conflict does not exist.
func (r *ConflictRepo) SetResolved(ctx context.Context, id uint64, resolved bool, reason *string) error {
	const q = `UPDATE seat_conflicts SET resolved = ?, reason = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, resolved, reason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Zero affected rows is ambiguous under MySQL: the conflict may not
	// exist, or the decision may simply repeat what is already stored.
	const qExists = `SELECT 1 FROM seat_conflicts WHERE id = ? LIMIT 1`
	var one int
	if err := r.db.QueryRowContext(ctx, qExists, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrConflictNotFound
		}
		return err
	}
	return nil
}
