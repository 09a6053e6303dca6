package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/examind/seatplan/internal/model"
	"github.com/examind/seatplan/internal/repository"
)

// HallHandler manages the examination hall inventory.
type HallHandler struct {
	Halls *repository.HallRepo
}

// NewHallHandler constructs a HallHandler and panics if the repo is nil.
func NewHallHandler(halls *repository.HallRepo) *HallHandler {
	if halls == nil {
		panic("nil repo passed to NewHallHandler")
	}
	return &HallHandler{Halls: halls}
}

// Create handles POST /v1/halls.
func (h *HallHandler) Create(c echo.Context) error {
	var body struct {
		Name          string  `json:"name"`
		Description   *string `json:"description"`
		SeatRows      uint32  `json:"seat_rows"`
		SeatCols      uint32  `json:"seat_cols"`
		ReservedSeats uint32  `json:"reserved_seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.SeatRows < 1 || body.SeatCols < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_rows and seat_cols must be at least 1"})
	}

	hall := &model.Hall{
		Name:          body.Name,
		Description:   body.Description,
		SeatRows:      body.SeatRows,
		SeatCols:      body.SeatCols,
		ReservedSeats: body.ReservedSeats,
		IsActive:      true,
	}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hall"})
	}
	return c.JSON(http.StatusCreated, hallJSON(hall))
}

// List handles GET /v1/halls. Pass ?active=true to restrict the listing
// to halls currently eligible for allocation.
func (h *HallHandler) List(c echo.Context) error {
	var (
		halls []*model.Hall
		err   error
	)
	if c.QueryParam("active") == "true" {
		halls, err = h.Halls.ListActive(c.Request().Context())
	} else {
		halls, err = h.Halls.List(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list halls"})
	}
	out := make([]echo.Map, 0, len(halls))
	for _, hall := range halls {
		out = append(out, hallJSON(hall))
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": out})
}

// SetActive handles PATCH /v1/halls/:id/active.
func (h *HallHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil || body.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
	}
	if err := h.Halls.SetActive(c.Request().Context(), id, *body.Active); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update hall"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load hall"})
	}
	return c.JSON(http.StatusOK, hallJSON(hall))
}
