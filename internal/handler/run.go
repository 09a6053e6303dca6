package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/examind/seatplan/internal/allocation"
	"github.com/examind/seatplan/internal/repository"
	"github.com/examind/seatplan/internal/service"
)

// RunHandler exposes the allocation run lifecycle: create, execute,
// poll, regenerate, and the plan/conflict listings.
type RunHandler struct {
	Orch      *service.Orchestrator
	Runs      *repository.RunRepo
	Allocs    *repository.AllocationRepo
	Conflicts *repository.ConflictRepo
}

// NewRunHandler constructs a RunHandler and panics if a dependency is nil.
func NewRunHandler(orch *service.Orchestrator, runs *repository.RunRepo, allocs *repository.AllocationRepo, conflicts *repository.ConflictRepo) *RunHandler {
	if orch == nil || runs == nil || allocs == nil || conflicts == nil {
		panic("nil dependency passed to NewRunHandler")
	}
	return &RunHandler{Orch: orch, Runs: runs, Allocs: allocs, Conflicts: conflicts}
}

// Create handles POST /v1/exams/:exam_id/runs.  Settings are fixed at
// creation; the response carries the pending run with its seed.
func (h *RunHandler) Create(c echo.Context) error {
	examID, ok := pathID(c, "exam_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	var body struct {
		Mode                string  `json:"mode"`
		SeatNumbering       string  `json:"seat_numbering"`
		AdjacencyStrictness string  `json:"adjacency_strictness"`
		Notes               *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	run, err := h.Orch.CreateRun(c.Request().Context(), examID, currentUserID(c), service.RunSettings{
		Mode:                body.Mode,
		SeatNumbering:       body.SeatNumbering,
		AdjacencyStrictness: body.AdjacencyStrictness,
		Notes:               body.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettings) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create run"})
	}
	return c.JSON(http.StatusCreated, runJSON(run))
}

// Execute handles POST /v1/runs/:id/execute.  Small rosters run inline
// and return the plan; large ones are accepted for background execution
// and the caller polls Get.
func (h *RunHandler) Execute(c echo.Context) error {
	runID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}

	out, err := h.Orch.Start(c.Request().Context(), runID)
	if err != nil {
		return executeError(c, err)
	}
	if out.Async {
		return c.JSON(http.StatusAccepted, echo.Map{
			"run":    runJSON(out.Run),
			"queued": true,
		})
	}
	allocs := make([]echo.Map, len(out.Result.Allocations))
	for i, a := range out.Result.Allocations {
		allocs[i] = allocationJSON(a)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"run":         runJSON(out.Run),
		"allocations": allocs,
	})
}

// executeError maps the execute error taxonomy onto HTTP codes.  Every
// branch keeps its structured code so callers can pick the right remedy.
func executeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrRunNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "run not found"})
	case errors.Is(err, repository.ErrRunNotPending):
		return c.JSON(http.StatusConflict, echo.Map{"error": "RUN_NOT_PENDING"})
	case errors.Is(err, service.ErrNoActiveHalls):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "NO_ACTIVE_HALLS"})
	case errors.Is(err, service.ErrEmptyRoster):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "EMPTY_ROSTER"})
	case errors.Is(err, allocation.ErrCapacityExceeded):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "CAPACITY_EXCEEDED"})
	case errors.Is(err, allocation.ErrUnresolvedConflicts):
		return c.JSON(http.StatusConflict, echo.Map{"error": "UNRESOLVED_HARD_CONFLICTS"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "execution failed"})
	}
}

// Get handles GET /v1/runs/:id — the polling endpoint of the async path.
func (h *RunHandler) Get(c echo.Context) error {
	runID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	run, err := h.Runs.GetByID(c.Request().Context(), runID)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "run not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, runJSON(run))
}

// Regenerate handles POST /v1/runs/:id/regenerate: a brand-new run with
// the same settings and a fresh seed.  The source run is untouched.
func (h *RunHandler) Regenerate(c echo.Context) error {
	runID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	run, err := h.Orch.Regenerate(c.Request().Context(), runID, currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "run not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to regenerate run"})
	}
	return c.JSON(http.StatusCreated, runJSON(run))
}

// ListAllocations handles GET /v1/runs/:id/allocations.
func (h *RunHandler) ListAllocations(c echo.Context) error {
	runID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	if _, err := h.Runs.GetByID(c.Request().Context(), runID); err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "run not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	allocs, err := h.Allocs.ListByRun(c.Request().Context(), runID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, len(allocs))
	for i, a := range allocs {
		out[i] = allocationJSON(a)
	}
	return c.JSON(http.StatusOK, echo.Map{"allocations": out})
}

// ListConflicts handles GET /v1/runs/:id/conflicts.
func (h *RunHandler) ListConflicts(c echo.Context) error {
	runID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	conflicts, err := h.Conflicts.ListByRun(c.Request().Context(), runID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, len(conflicts))
	for i, sc := range conflicts {
		out[i] = conflictJSON(sc)
	}
	return c.JSON(http.StatusOK, echo.Map{"conflicts": out})
}

// ResolveConflict handles PATCH /v1/conflicts/:id — the reviewer
// interface for signing off (or reopening) a recorded violation.
func (h *RunHandler) ResolveConflict(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conflict id"})
	}
	var body struct {
		Resolved bool    `json:"resolved"`
		Reason   *string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Conflicts.SetResolved(c.Request().Context(), id, body.Resolved, body.Reason); err != nil {
		if errors.Is(err, repository.ErrConflictNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conflict not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
