package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/examind/seatplan/internal/model"
)

// RunRepo provides persistence for allocation runs, including the
// transactional write of a completed result (allocations + conflicts +
// status flip in one commit).
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo constructs a RunRepo with the given DB handle.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

const runColumns = `id, exam_id, created_by, shuffle_seed, mode, seat_numbering,
	adjacency_strictness, notes, status, failure_reason, result_meta, completed_at,
	created_at, updated_at`

func scanRun(row interface{ Scan(...any) error }) (*model.AllocationRun, error) {
	var run model.AllocationRun
	var notes, reason sql.NullString
	var meta []byte
	err := row.Scan(&run.ID, &run.ExamID, &run.CreatedBy, &run.ShuffleSeed, &run.Mode,
		&run.SeatNumbering, &run.AdjacencyStrictness, &notes, &run.Status, &reason,
		&meta, &run.CompletedAt, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		run.Notes = &notes.String
	}
	if reason.Valid {
		run.FailureReason = &reason.String
	}
	if len(meta) > 0 {
		var m model.RunResultMeta
		if err := json.Unmarshal(meta, &m); err != nil {
			return nil, err
		}
		run.ResultMeta = &m
	}
	return &run, nil
}

// Create inserts a new run in PENDING state.  Settings, seed included,
// are written once here and never updated afterwards.
func (r *RunRepo) Create(ctx context.Context, run *model.AllocationRun) error {
	const q = `INSERT INTO allocation_runs
	           (exam_id, created_by, shuffle_seed, mode, seat_numbering, adjacency_strictness, notes, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, run.ExamID, run.CreatedBy, run.ShuffleSeed,
		run.Mode, run.SeatNumbering, run.AdjacencyStrictness, run.Notes, model.RunStatusPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*run = *created
	return nil
}

// GetByID retrieves a run by its ID.  Returns ErrRunNotFound when no row
// is found.
func (r *RunRepo) GetByID(ctx context.Context, id uint64) (*model.AllocationRun, error) {
	const q = `SELECT ` + runColumns + ` FROM allocation_runs WHERE id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

// MarkRunning performs the guarded PENDING -> RUNNING transition.  The
// WHERE clause makes the transition happen at most once; a duplicate
// attempt (e.g. a redelivered queue message) gets ErrRunNotPending.
func (r *RunRepo) MarkRunning(ctx context.Context, id uint64) error {
	const q = `UPDATE allocation_runs
	           SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.RunStatusRunning, id, model.RunStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotPending
	}
	return nil
}

// MarkFailed moves the run to FAILED with a structured reason and
// optional result metadata (e.g. the conflict count of a hard-mode
// failure).  Failed runs keep no allocations, so nothing else is
// written.
func (r *RunRepo) MarkFailed(ctx context.Context, id uint64, reason string, meta *model.RunResultMeta) error {
	metaJSON, err := marshalMeta(meta)
	if err != nil {
		return err
	}
	const q = `UPDATE allocation_runs
	           SET status = ?, failure_reason = ?, result_meta = ?,
	               completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status IN (?, ?)`
	res, err := r.db.ExecContext(ctx, q, model.RunStatusFailed, reason, metaJSON,
		id, model.RunStatusPending, model.RunStatusRunning)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotPending
	}
	return nil
}

// SaveResult persists a completed run atomically: every allocation row,
// every recorded conflict, and the RUNNING -> COMPLETED flip commit
// together or not at all.  Conflict pairs arrive as indices into allocs
// because allocation ids only exist after the inserts.
func (r *RunRepo) SaveResult(ctx context.Context, runID uint64, allocs []*model.Allocation, pairs [][2]int, keys []string, meta *model.RunResultMeta) error {
	metaJSON, err := marshalMeta(meta)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	insAlloc, err := tx.PrepareContext(ctx, `INSERT INTO allocations
	    (run_id, student_id, hall_id, row_no, col_no, seat_number) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insAlloc.Close()
	for _, a := range allocs {
		res, err := insAlloc.ExecContext(ctx, runID, a.StudentID, a.HallID, a.RowNo, a.ColNo, a.SeatNumber)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		a.RunID = runID
	}

	if len(pairs) > 0 {
		insConf, err := tx.PrepareContext(ctx, `INSERT INTO seat_conflicts
		    (run_id, allocation_a, allocation_b, separation_key) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insConf.Close()
		for i, p := range pairs {
			key := ""
			if i < len(keys) {
				key = keys[i]
			}
			if _, err := insConf.ExecContext(ctx, runID, allocs[p[0]].ID, allocs[p[1]].ID, key); err != nil {
				return err
			}
		}
	}

	const q = `UPDATE allocation_runs
	           SET status = ?, result_meta = ?, completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, model.RunStatusCompleted, metaJSON, runID, model.RunStatusRunning)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotPending
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func marshalMeta(meta *model.RunResultMeta) (any, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return b, nil
}
