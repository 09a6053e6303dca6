// Package handler defines the HTTP handlers of the allocation API.
package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/examind/seatplan/internal/model"
)

// currentUserID extracts the authenticated user's id from the context.
// The JWT middleware stores the raw "sub" claim, whose concrete type
// depends on how the issuer encoded it.
func currentUserID(c echo.Context) uint64 {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t
	case int64:
		return uint64(t)
	case float64:
		return uint64(t)
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

func runJSON(r *model.AllocationRun) echo.Map {
	out := echo.Map{
		"id":                   r.ID,
		"exam_id":              r.ExamID,
		"created_by":           r.CreatedBy,
		"shuffle_seed":         r.ShuffleSeed,
		"mode":                 r.Mode,
		"seat_numbering":       r.SeatNumbering,
		"adjacency_strictness": r.AdjacencyStrictness,
		"status":               r.Status,
		"created_at":           r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Notes != nil {
		out["notes"] = *r.Notes
	}
	if r.FailureReason != nil {
		out["failure_reason"] = *r.FailureReason
	}
	if r.ResultMeta != nil {
		out["result"] = r.ResultMeta
	}
	if r.CompletedAt != nil {
		out["completed_at"] = r.CompletedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func allocationJSON(a *model.Allocation) echo.Map {
	return echo.Map{
		"id":          a.ID,
		"run_id":      a.RunID,
		"student_id":  a.StudentID,
		"hall_id":     a.HallID,
		"row":         a.RowNo,
		"col":         a.ColNo,
		"seat_number": a.SeatNumber,
	}
}

func conflictJSON(sc *model.SeatConflict) echo.Map {
	out := echo.Map{
		"id":             sc.ID,
		"run_id":         sc.RunID,
		"allocation_a":   sc.AllocationA,
		"allocation_b":   sc.AllocationB,
		"separation_key": sc.SeparationKey,
		"resolved":       sc.Resolved,
	}
	if sc.Reason != nil {
		out["reason"] = *sc.Reason
	}
	return out
}

func hallJSON(h *model.Hall) echo.Map {
	out := echo.Map{
		"id":             h.ID,
		"name":           h.Name,
		"rows":           h.SeatRows,
		"cols":           h.SeatCols,
		"capacity":       h.Capacity(),
		"reserved_seats": h.ReservedSeats,
		"is_active":      h.IsActive,
	}
	if h.Description != nil {
		out["description"] = *h.Description
	}
	return out
}
