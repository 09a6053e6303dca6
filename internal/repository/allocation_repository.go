package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/examind/seatplan/internal/model"
)

// AllocationRepo reads seated students and applies single-seat manual
// reassignments.  Bulk creation happens through RunRepo.SaveResult; this
// repository only ever touches one row at a time afterwards.
type AllocationRepo struct {
	db *sql.DB
}

// NewAllocationRepo constructs an AllocationRepo with the given DB handle.
func NewAllocationRepo(db *sql.DB) *AllocationRepo {
	return &AllocationRepo{db: db}
}

const allocColumns = `id, run_id, student_id, hall_id, row_no, col_no, seat_number, created_at, updated_at`

func scanAllocation(row interface{ Scan(...any) error }) (*model.Allocation, error) {
	var a model.Allocation
	err := row.Scan(&a.ID, &a.RunID, &a.StudentID, &a.HallID, &a.RowNo, &a.ColNo,
		&a.SeatNumber, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves one allocation.  Returns ErrAllocationNotFound when
// no row is found.
func (r *AllocationRepo) GetByID(ctx context.Context, id uint64) (*model.Allocation, error) {
	const q = `SELECT ` + allocColumns + ` FROM allocations WHERE id = ?`
	a, err := scanAllocation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByRun returns the run's full seating plan in hall/seat order.
func (r *AllocationRepo) ListByRun(ctx context.Context, runID uint64) ([]*model.Allocation, error) {
	const q = `SELECT ` + allocColumns + ` FROM allocations
	           WHERE run_id = ?
	           ORDER BY hall_id, seat_number`
	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimSeat moves an allocation onto a target cell with the occupancy
// check and the write inside one transaction.  The SELECT ... FOR UPDATE
// locks the target cell's row for the duration, and the unique index on
// (run_id, hall_id, row_no, col_no) backstops the race at the storage
// layer: a concurrent winner surfaces as ErrSeatOccupied either way.
func (r *AllocationRepo) ClaimSeat(ctx context.Context, allocationID, runID, hallID uint64, row, col, seatNumber uint32) (*model.Allocation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qCheck = `SELECT id FROM allocations
	                WHERE run_id = ? AND hall_id = ? AND row_no = ? AND col_no = ?
	                FOR UPDATE`
	var occupant uint64
	err = tx.QueryRowContext(ctx, qCheck, runID, hallID, row, col).Scan(&occupant)
	switch {
	case err == nil:
		if occupant != allocationID {
			return nil, ErrSeatOccupied
		}
		// Reassigning onto its own seat; fall through and rewrite the
		// seat number in case the numbering scheme column drifted.
	case errors.Is(err, sql.ErrNoRows):
		// Seat is free.
	default:
		return nil, err
	}

	const qUpdate = `UPDATE allocations
	                 SET hall_id = ?, row_no = ?, col_no = ?, seat_number = ?, updated_at = CURRENT_TIMESTAMP
	                 WHERE id = ? AND run_id = ?`
	res, err := tx.ExecContext(ctx, qUpdate, hallID, row, col, seatNumber, allocationID, runID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key on uq_run_seat
			return nil, ErrSeatOccupied
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows means the allocation vanished, or the update was a
		// no-op same-seat rewrite; distinguish by re-reading below.
		var exists uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM allocations WHERE id = ? AND run_id = ?`, allocationID, runID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrAllocationNotFound
			}
			return nil, err
		}
	}

	const qRead = `SELECT ` + allocColumns + ` FROM allocations WHERE id = ?`
	updated, err := scanAllocation(tx.QueryRowContext(ctx, qRead, allocationID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return updated, nil
}
