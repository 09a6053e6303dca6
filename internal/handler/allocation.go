package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/examind/seatplan/internal/repository"
	"github.com/examind/seatplan/internal/service"
)

// AllocationHandler exposes the manual edit guard.
type AllocationHandler struct {
	Guard *service.EditGuard
}

// NewAllocationHandler constructs an AllocationHandler and panics if the
// guard is nil.
func NewAllocationHandler(guard *service.EditGuard) *AllocationHandler {
	if guard == nil {
		panic("nil guard passed to NewAllocationHandler")
	}
	return &AllocationHandler{Guard: guard}
}

// Reassign handles PATCH /v1/allocations/:id, moving one student to a
// new seat on a completed run.  Bounds and occupancy are the only
// checks; adjacency is deliberately not re-evaluated.
func (h *AllocationHandler) Reassign(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid allocation id"})
	}
	var body struct {
		HallID uint64 `json:"hall_id"`
		Row    uint32 `json:"row"`
		Col    uint32 `json:"col"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}

	updated, err := h.Guard.Reassign(c.Request().Context(), id, body.HallID, body.Row, body.Col)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAllocationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "allocation not found"})
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, service.ErrRunNotCompleted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "RUN_NOT_COMPLETED"})
		case errors.Is(err, service.ErrOutOfBounds):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "OUT_OF_BOUNDS"})
		case errors.Is(err, repository.ErrSeatOccupied):
			return c.JSON(http.StatusConflict, echo.Map{"error": "SEAT_OCCUPIED"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reassignment failed"})
		}
	}
	return c.JSON(http.StatusOK, allocationJSON(updated))
}
