package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/examind/seatplan/internal/repository"
)

func postJSON(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestHallCreateHandler(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO halls").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("SELECT .+ FROM halls WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "seat_rows", "seat_cols",
			"reserved_seats", "is_active", "created_at", "updated_at",
		}).AddRow(3, "Main Hall", nil, 10, 12, 4, true, now, now))

	h := NewHallHandler(repository.NewHallRepo(db))
	c, rec := postJSON(t, "/v1/halls", `{"name":"Main Hall","seat_rows":10,"seat_cols":12,"reserved_seats":4}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	// The response carries the stored row, not just the request echo.
	if out["id"] != float64(3) || out["name"] != "Main Hall" || out["capacity"] != float64(120) {
		t.Errorf("body = %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHallCreateHandlerRejectsBadGeometry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	h := NewHallHandler(repository.NewHallRepo(db))
	c, rec := postJSON(t, "/v1/halls", `{"name":"Flat","seat_rows":0,"seat_cols":5}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	// Validation failures never reach the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
