package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AvailabilityNotice tells an instructor which recurring cells were dropped
// because a teaching session already occupied them.
type AvailabilityNotice struct {
	ID           string         `db:"id" json:"id"`
	InstructorID string         `db:"instructor_id" json:"instructor_id"`
	Dropped      types.JSONText `db:"dropped" json:"dropped"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	ReadAt       *time.Time     `db:"read_at" json:"read_at,omitempty"`
}
