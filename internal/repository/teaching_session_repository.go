package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
)

// TeachingSessionRepository reads confirmed class sessions. The scheduler
// never writes to class_sessions; it only uses them to veto availability.
type TeachingSessionRepository struct {
	db *sqlx.DB
}

// NewTeachingSessionRepository constructs the repository.
func NewTeachingSessionRepository(db *sqlx.DB) *TeachingSessionRepository {
	return &TeachingSessionRepository{db: db}
}

// ListOccupied returns the confirmed sessions of an instructor inside [start, end].
func (r *TeachingSessionRepository) ListOccupied(ctx context.Context, instructorID string, start, end scheduling.Date) ([]models.OccupiedSlot, error) {
	const query = `SELECT id AS session_id, class_id, date, timeslot_id FROM class_sessions
WHERE instructor_id = $1 AND status = 'CONFIRMED' AND date BETWEEN $2 AND $3
ORDER BY date ASC, timeslot_id ASC`
	var slots []models.OccupiedSlot
	if err := r.db.SelectContext(ctx, &slots, query, instructorID, start, end); err != nil {
		return nil, fmt.Errorf("list occupied slots: %w", err)
	}
	return slots, nil
}
