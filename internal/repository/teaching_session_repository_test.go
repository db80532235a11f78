package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-availability-api/internal/scheduling"
)

func TestTeachingSessionRepositoryListOccupied(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachingSessionRepository(db)

	rows := sqlmock.NewRows([]string{"session_id", "class_id", "date", "timeslot_id"}).
		AddRow("sess-1", "class-1", "2025-03-05", 3).
		AddRow("sess-2", "class-2", "2025-03-06", 1)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions")).
		WithArgs("inst-1", "2025-03-03", "2025-03-09").
		WillReturnRows(rows)

	slots, err := repo.ListOccupied(context.Background(), "inst-1", weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, scheduling.Cell{Date: scheduling.MustParseDate("2025-03-05"), TimeslotID: 3}, slots[0].Cell())
	assert.Equal(t, "class-2", slots[1].ClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingSessionRepositoryListOccupiedError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachingSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions")).WillReturnError(sql.ErrConnDone)

	_, err := repo.ListOccupied(context.Background(), "inst-1", weekStart, weekEnd)
	require.ErrorIs(t, err, sql.ErrConnDone)
}
