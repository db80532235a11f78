package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
	"github.com/noah-isme/lms-availability-api/pkg/database"
)

// AvailabilityRepository persists declared availability keyed by
// (instructor_id, date, timeslot_id).
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const insertAvailabilityQuery = `INSERT INTO instructor_availability (instructor_id, date, timeslot_id, instructor_type, created_at)
VALUES (:instructor_id, :date, :timeslot_id, :instructor_type, :created_at)
ON CONFLICT (instructor_id, date, timeslot_id) DO NOTHING`

// ListWindow returns declarations inside [start, end] ordered by date and slot.
func (r *AvailabilityRepository) ListWindow(ctx context.Context, instructorID string, start, end scheduling.Date) ([]models.AvailabilitySlot, error) {
	const query = `SELECT instructor_id, date, timeslot_id, instructor_type, created_at FROM instructor_availability
WHERE instructor_id = $1 AND date BETWEEN $2 AND $3
ORDER BY date ASC, timeslot_id ASC`
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, instructorID, start, end); err != nil {
		return nil, fmt.Errorf("list availability window: %w", err)
	}
	return slots, nil
}

// ReplaceWindow deletes every declaration inside [start, end] and inserts
// slots, all in one transaction.
func (r *AvailabilityRepository) ReplaceWindow(ctx context.Context, instructorID string, start, end scheduling.Date, slots []models.AvailabilitySlot) error {
	const deleteQuery = `DELETE FROM instructor_availability WHERE instructor_id = $1 AND date BETWEEN $2 AND $3`

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, instructorID, start, end); err != nil {
			return fmt.Errorf("clear availability window: %w", err)
		}
		now := time.Now().UTC()
		for i := range slots {
			slot := &slots[i]
			slot.InstructorID = instructorID
			if slot.CreatedAt.IsZero() {
				slot.CreatedAt = now
			}
			if _, err := sqlx.NamedExecContext(ctx, tx, insertAvailabilityQuery, slot); err != nil {
				return fmt.Errorf("insert availability slot: %w", err)
			}
		}
		return nil
	})
}

// InsertMissing inserts each slot unless its key already exists. The returned
// slice reports, per input slot, whether a row was written. The batch commits
// atomically.
func (r *AvailabilityRepository) InsertMissing(ctx context.Context, slots []models.AvailabilitySlot) ([]bool, error) {
	inserted := make([]bool, len(slots))
	if len(slots) == 0 {
		return inserted, nil
	}

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for i := range slots {
			slot := &slots[i]
			if slot.CreatedAt.IsZero() {
				slot.CreatedAt = now
			}
			res, err := sqlx.NamedExecContext(ctx, tx, insertAvailabilityQuery, slot)
			if err != nil {
				return fmt.Errorf("insert availability slot: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("inspect availability insert: %w", err)
			}
			inserted[i] = affected > 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}
