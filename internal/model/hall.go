package model

import "time"

// Hall represents a physical examination room.  A hall is a plain
// rows-by-columns grid of seats; seats are derived from the geometry at
// allocation time and are not stored individually.  Only active halls
// participate in an allocation run.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique human readable label (also the enumeration sort key).
//  Description   – optional description of the hall.
//  SeatRows      – number of seating rows (>= 1).
//  SeatCols      – number of seats per row (>= 1).
//  ReservedSeats – advisory count of seats kept free for supervisors.
//  IsActive      – whether the hall participates in allocation runs.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Hall struct {
	ID            uint64    // halls.id
	Name          string    // halls.name
	Description   *string   // halls.description (nullable)
	SeatRows      uint32    // halls.seat_rows
	SeatCols      uint32    // halls.seat_cols
	ReservedSeats uint32    // halls.reserved_seats (advisory only)
	IsActive      bool      // halls.is_active
	CreatedAt     time.Time // halls.created_at
	UpdatedAt     time.Time // halls.updated_at
}

// Capacity returns the total number of seats in the hall.  The
// supervisor reservation hint does not reduce capacity.
func (h *Hall) Capacity() uint32 {
	return h.SeatRows * h.SeatCols
}
