package scheduling

// TimeSlot is one fixed teaching period of a day.
type TimeSlot struct {
	ID        int    `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SlotsPerDay is the size of the daily catalog.
const SlotsPerDay = 6

var catalog = [SlotsPerDay]TimeSlot{
	{ID: 1, StartTime: "08:00", EndTime: "10:00"},
	{ID: 2, StartTime: "10:15", EndTime: "12:15"},
	{ID: 3, StartTime: "13:00", EndTime: "15:00"},
	{ID: 4, StartTime: "15:15", EndTime: "17:15"},
	{ID: 5, StartTime: "18:00", EndTime: "20:00"},
	{ID: 6, StartTime: "20:00", EndTime: "22:00"},
}

// AllSlots returns the daily catalog ordered by start time. The slice is a copy.
func AllSlots() []TimeSlot {
	out := make([]TimeSlot, len(catalog))
	copy(out, catalog[:])
	return out
}

// SlotByID looks up a catalog entry.
func SlotByID(id int) (TimeSlot, bool) {
	if !IsValidSlot(id) {
		return TimeSlot{}, false
	}
	return catalog[id-1], true
}

// IsValidSlot reports whether id addresses a catalog entry.
func IsValidSlot(id int) bool {
	return id >= 1 && id <= SlotsPerDay
}
