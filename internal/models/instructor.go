package models

import (
	"time"

	"github.com/noah-isme/lms-availability-api/internal/scheduling"
)

// Instructor is the subset of the instructor profile the scheduler needs.
type Instructor struct {
	ID             string                    `db:"id" json:"id"`
	FullName       string                    `db:"full_name" json:"full_name"`
	Email          string                    `db:"email" json:"email"`
	EmploymentType scheduling.EmploymentType `db:"employment_type" json:"employment_type"`
	Active         bool                      `db:"active" json:"active"`
	CreatedAt      time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time                 `db:"updated_at" json:"updated_at"`
}
