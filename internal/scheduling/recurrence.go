package scheduling

// Supported recurrence lengths in weeks.
const (
	RecurrenceMonth   = 4
	RecurrenceQuarter = 12
)

// IsSupportedRecurrence reports whether weeks is an offered repetition count.
func IsSupportedRecurrence(weeks int) bool {
	return weeks == RecurrenceMonth || weeks == RecurrenceQuarter
}

// Expand repeats a seed cell weekly: the k-th cell is seed+7k days on the
// same timeslot, for k in [0, weeks). Eligibility and occupancy are checked
// per cell by the writer, not here.
func Expand(seed Date, timeslotID, weeks int) []Cell {
	if weeks <= 0 {
		return nil
	}
	cells := make([]Cell, weeks)
	for k := 0; k < weeks; k++ {
		cells[k] = Cell{Date: seed.AddDays(k * DaysPerWeek), TimeslotID: timeslotID}
	}
	return cells
}
