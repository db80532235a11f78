package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-availability-api/internal/models"
)

func TestNoticeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_notices")).
		WithArgs(sqlmock.AnyArg(), "inst-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	notice := &models.AvailabilityNotice{InstructorID: "inst-1", Dropped: types.JSONText(`[{"date":"2025-01-13","timeslot_id":1}]`)}
	require.NoError(t, repo.Create(context.Background(), notice))
	assert.NotEmpty(t, notice.ID)
	assert.False(t, notice.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeRepositoryListUnread(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "instructor_id", "dropped", "created_at", "read_at"}).
		AddRow("n-1", "inst-1", `[]`, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM availability_notices WHERE instructor_id = $1 AND read_at IS NULL ORDER BY created_at DESC LIMIT 20")).
		WithArgs("inst-1").
		WillReturnRows(rows)

	notices, err := repo.ListByInstructor(context.Background(), "inst-1", true, 0)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Nil(t, notices[0].ReadAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeRepositoryMarkRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	const query = "UPDATE availability_notices SET read_at = COALESCE(read_at, $3) WHERE id = $1 AND instructor_id = $2"
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs("n-1", "inst-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs("n-1", "inst-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs("n-2", "inst-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkRead(context.Background(), "inst-1", "n-1"))
	require.NoError(t, repo.MarkRead(context.Background(), "inst-1", "n-1"))
	require.ErrorIs(t, repo.MarkRead(context.Background(), "inst-1", "n-2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
