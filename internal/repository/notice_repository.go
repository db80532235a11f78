package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-availability-api/internal/models"
)

// NoticeRepository stores dropped-recurrence notices.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository constructs the repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create persists a notice, assigning id and timestamp when unset.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.AvailabilityNotice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now().UTC()
	}
	if len(notice.Dropped) == 0 {
		notice.Dropped = []byte("[]")
	}

	const query = `INSERT INTO availability_notices (id, instructor_id, dropped, created_at)
VALUES (:id, :instructor_id, :dropped, :created_at)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create availability notice: %w", err)
	}
	return nil
}

// ListByInstructor returns the newest notices first.
func (r *NoticeRepository) ListByInstructor(ctx context.Context, instructorID string, unreadOnly bool, limit int) ([]models.AvailabilityNotice, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT id, instructor_id, dropped, created_at, read_at FROM availability_notices WHERE instructor_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	var notices []models.AvailabilityNotice
	if err := r.db.SelectContext(ctx, &notices, query, instructorID); err != nil {
		return nil, fmt.Errorf("list availability notices: %w", err)
	}
	return notices, nil
}

// MarkRead stamps a notice as read, keeping the first read time when it is
// marked again. Returns sql.ErrNoRows if the notice does not belong to the
// instructor.
func (r *NoticeRepository) MarkRead(ctx context.Context, instructorID, id string) error {
	const query = `UPDATE availability_notices SET read_at = COALESCE(read_at, $3) WHERE id = $1 AND instructor_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, instructorID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark availability notice read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark availability notice read: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
