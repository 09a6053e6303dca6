package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/examind/seatplan/internal/handler"
	"github.com/examind/seatplan/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	RateLimit echo.MiddlewareFunc
	Runs      *handler.RunHandler
	Allocs    *handler.AllocationHandler
	Halls     *handler.HallHandler
}

// Register mounts the public health probe and the authenticated v1 API.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(d.JWTSecret))
	v1.Use(middleware.RequireRole("ADMIN", "STAFF"))
	if d.RateLimit != nil {
		v1.Use(d.RateLimit)
	}

	v1.POST("/halls", d.Halls.Create)
	v1.GET("/halls", d.Halls.List)
	v1.PATCH("/halls/:id/active", d.Halls.SetActive)

	v1.POST("/exams/:exam_id/runs", d.Runs.Create)
	v1.POST("/runs/:id/execute", d.Runs.Execute)
	v1.POST("/runs/:id/regenerate", d.Runs.Regenerate)
	v1.GET("/runs/:id", d.Runs.Get)
	v1.GET("/runs/:id/allocations", d.Runs.ListAllocations)
	v1.GET("/runs/:id/conflicts", d.Runs.ListConflicts)
	v1.PATCH("/conflicts/:id", d.Runs.ResolveConflict)

	v1.PATCH("/allocations/:id", d.Allocs.Reassign)
}
