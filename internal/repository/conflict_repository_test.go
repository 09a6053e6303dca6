package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSetResolvedUpdatesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewConflictRepo(db)

	mock.ExpectExec("UPDATE seat_conflicts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetResolved(context.Background(), 7, true, nil); err != nil {
		t.Fatalf("SetResolved: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetResolvedIdempotentResubmit(t *testing.T) {
	// Re-submitting the stored decision changes nothing, so MySQL
	// reports zero affected rows; that must not surface as not-found.
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewConflictRepo(db)

	mock.ExpectExec("UPDATE seat_conflicts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM seat_conflicts").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	if err := repo.SetResolved(context.Background(), 7, true, nil); err != nil {
		t.Fatalf("repeated resolution should succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetResolvedUnknownConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewConflictRepo(db)

	mock.ExpectExec("UPDATE seat_conflicts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM seat_conflicts").
		WillReturnError(sql.ErrNoRows)

	err = repo.SetResolved(context.Background(), 99, true, nil)
	if !errors.Is(err, ErrConflictNotFound) {
		t.Fatalf("err = %v, want ErrConflictNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
