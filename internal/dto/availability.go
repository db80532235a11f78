package dto

import "github.com/noah-isme/lms-availability-api/internal/scheduling"

// SlotEntry addresses one cell of the availability grid.
type SlotEntry struct {
	Date       scheduling.Date `json:"date"`
	TimeslotID int             `json:"timeslot_id"`
}

// Cell converts the entry to a grid key.
func (e SlotEntry) Cell() scheduling.Cell {
	return scheduling.Cell{Date: e.Date, TimeslotID: e.TimeslotID}
}

// ReplaceWindowRequest replaces every declaration inside [StartDate, EndDate].
type ReplaceWindowRequest struct {
	StartDate scheduling.Date `json:"start_date"`
	EndDate   scheduling.Date `json:"end_date"`
	Slots     []SlotEntry     `json:"slots" validate:"max=2196"`
}

// AddSlotsRequest adds declarations without touching existing ones.
type AddSlotsRequest struct {
	Slots []SlotEntry `json:"slots" validate:"required,min=1,max=512"`
}

// ExpandRecurringRequest seeds a weekly recurrence from one cell.
type ExpandRecurringRequest struct {
	Date       scheduling.Date `json:"date"`
	TimeslotID int             `json:"timeslot_id" validate:"required,min=1,max=6"`
	Weeks      int             `json:"weeks" validate:"required,oneof=4 12"`
}

// NoticeListQuery filters the notice feed.
type NoticeListQuery struct {
	Unread bool `form:"unread"`
	Limit  int  `form:"limit" validate:"omitempty,min=1,max=100"`
}
