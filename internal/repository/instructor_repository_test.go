package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-availability-api/internal/scheduling"
)

func TestInstructorRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "employment_type", "active", "created_at", "updated_at"}).
		AddRow("inst-1", "Dewi Lestari", "dewi@example.com", "fulltime", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, email, employment_type, active, created_at, updated_at FROM instructors WHERE id = $1")).
		WithArgs("inst-1").
		WillReturnRows(rows)

	instructor, err := repo.FindByID(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.Equal(t, scheduling.EmploymentFullTime, instructor.EmploymentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM instructors")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
