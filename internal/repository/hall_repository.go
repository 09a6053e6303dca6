package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/examind/seatplan/internal/model"
)

// HallRepo provides persistence for examination halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, name, description, seat_rows, seat_cols, reserved_seats, is_active, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (*model.Hall, error) {
	var h model.Hall
	var desc sql.NullString
	err := row.Scan(&h.ID, &h.Name, &desc, &h.SeatRows, &h.SeatCols, &h.ReservedSeats, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		h.Description = &desc.String
	}
	return &h, nil
}

// Create inserts a new hall and reads the row back so defaults and
// timestamps are populated on the returned value.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (name, description, seat_rows, seat_cols, reserved_seats)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Description, h.SeatRows, h.SeatCols, h.ReservedSeats)
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
	*h = *created
	return nil
}

// GetByID retrieves a hall by its ID.  Returns ErrHallNotFound when no
// row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

// List returns all halls ordered by name then id.
func (r *HallRepo) List(ctx context.Context) ([]*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls ORDER BY name, id`
	return r.list(ctx, q)
}

// ListActive returns the halls participating in allocation runs, ordered
// by name then id.  This ordering matches the solver's hall enumeration
// order, keeping the fill sequence stable across runs.
func (r *HallRepo) ListActive(ctx context.Context) ([]*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE is_active = 1 ORDER BY name, id`
	return r.list(ctx, q)
}

func (r *HallRepo) list(ctx context.Context, q string) ([]*model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive flips the is_active flag.  Returns ErrHallNotFound when the
// hall does not exist.
func (r *HallRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE halls SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Zero affected rows is ambiguous: missing hall, or a same-second
	// no-op re-toggle.  Distinguish with an existence read.
	const qExists = `SELECT 1 FROM halls WHERE id = ? LIMIT 1`
	var one int
	if err := r.db.QueryRowContext(ctx, qExists, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHallNotFound
		}
		return err
	}
	return nil
}
