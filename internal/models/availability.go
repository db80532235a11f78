package models

import (
	"time"

	"github.com/noah-isme/lms-availability-api/internal/scheduling"
)

// AvailabilitySlot is one cell an instructor has declared free to teach.
// (instructor_id, date, timeslot_id) is unique.
type AvailabilitySlot struct {
	InstructorID   string                    `db:"instructor_id" json:"instructor_id"`
	Date           scheduling.Date           `db:"date" json:"date"`
	TimeslotID     int                       `db:"timeslot_id" json:"timeslot_id"`
	InstructorType scheduling.EmploymentType `db:"instructor_type" json:"instructor_type"`
	CreatedAt      time.Time                 `db:"created_at" json:"created_at"`
}

// Cell returns the grid position of the slot.
func (s AvailabilitySlot) Cell() scheduling.Cell {
	return scheduling.Cell{Date: s.Date, TimeslotID: s.TimeslotID}
}

// OccupiedSlot is a cell where the instructor already teaches a confirmed session.
type OccupiedSlot struct {
	Date       scheduling.Date `db:"date" json:"date"`
	TimeslotID int             `db:"timeslot_id" json:"timeslot_id"`
	SessionID  string          `db:"session_id" json:"session_id,omitempty"`
	ClassID    string          `db:"class_id" json:"class_id,omitempty"`
}

// Cell returns the grid position of the session.
func (s OccupiedSlot) Cell() scheduling.Cell {
	return scheduling.Cell{Date: s.Date, TimeslotID: s.TimeslotID}
}

// AvailabilityWindow is the hydrated state of a date range.
type AvailabilityWindow struct {
	InstructorID string             `json:"instructor_id"`
	StartDate    scheduling.Date    `json:"start_date"`
	EndDate      scheduling.Date    `json:"end_date"`
	Availability []AvailabilitySlot `json:"availability"`
	Occupied     []OccupiedSlot     `json:"occupied"`
}

// Violation reasons reported for rejected cells.
const (
	ReasonOutsideWindow = "outside_window"
	ReasonInvalidDate   = string(scheduling.ViolationInvalidDate)
	ReasonInvalidSlot   = string(scheduling.ViolationInvalidSlot)
	ReasonOccupied      = string(scheduling.ViolationOccupied)
	ReasonIneligible    = string(scheduling.ViolationIneligible)
)

// SlotViolation names a rejected cell and why it was rejected.
type SlotViolation struct {
	Date       scheduling.Date `json:"date"`
	TimeslotID int             `json:"timeslot_id"`
	Reason     string          `json:"reason"`
}

// SlotOutcomeStatus is the per-entry result of an additive write.
type SlotOutcomeStatus string

const (
	OutcomeInserted          SlotOutcomeStatus = "inserted"
	OutcomeAlreadyPresent    SlotOutcomeStatus = "already_present"
	OutcomeSkippedOccupied   SlotOutcomeStatus = "skipped_occupied"
	OutcomeSkippedIneligible SlotOutcomeStatus = "skipped_ineligible"
	OutcomeSkippedInvalid    SlotOutcomeStatus = "skipped_invalid"
)

// Durable reports whether the cell is stored after the write.
func (s SlotOutcomeStatus) Durable() bool {
	return s == OutcomeInserted || s == OutcomeAlreadyPresent
}

// SlotOutcome reports what happened to one entry of an additive write.
type SlotOutcome struct {
	Date       scheduling.Date   `json:"date"`
	TimeslotID int               `json:"timeslot_id"`
	Status     SlotOutcomeStatus `json:"status"`
}

// AddSlotsResult aggregates per-entry outcomes.
type AddSlotsResult struct {
	Outcomes []SlotOutcome `json:"outcomes"`
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
}

// Dropped returns the cells skipped because they were already occupied.
func (r AddSlotsResult) Dropped() []scheduling.Cell {
	var cells []scheduling.Cell
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSkippedOccupied {
			cells = append(cells, scheduling.Cell{Date: o.Date, TimeslotID: o.TimeslotID})
		}
	}
	return cells
}
