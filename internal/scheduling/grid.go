package scheduling

// GridCell is one resolved position in a week grid.
type GridCell struct {
	Date        Date      `json:"date"`
	TimeslotID  int       `json:"timeslot_id"`
	State       CellState `json:"state"`
	Interactive bool      `json:"interactive"`
}

// WeekGrid is the resolved 7-day by 6-slot surface an instructor edits.
type WeekGrid struct {
	WeekStart Date         `json:"week_start"`
	WeekEnd   Date         `json:"week_end"`
	Days      []Date       `json:"days"`
	Slots     []TimeSlot   `json:"slots"`
	Rows      [][]GridCell `json:"rows"`
}

// BuildWeekGrid resolves every cell of the week. Rows follow the slot
// catalog, columns run Monday to Sunday.
func BuildWeekGrid(weekStart Date, t EmploymentType, occupied, declared CellSet) WeekGrid {
	weekStart = WeekStart(weekStart)
	days := WeekDates(weekStart)
	slots := AllSlots()

	rows := make([][]GridCell, len(slots))
	for i, slot := range slots {
		row := make([]GridCell, len(days))
		for j, day := range days {
			cell := Cell{Date: day, TimeslotID: slot.ID}
			state := ResolveCell(CellInput{
				Cell:     cell,
				Type:     t,
				Occupied: occupied.Has(cell),
				Declared: declared.Has(cell),
			}, DefaultRules)
			row[j] = GridCell{Date: day, TimeslotID: slot.ID, State: state, Interactive: state.Interactive()}
		}
		rows[i] = row
	}

	return WeekGrid{
		WeekStart: weekStart,
		WeekEnd:   WeekEnd(weekStart),
		Days:      days,
		Slots:     slots,
		Rows:      rows,
	}
}
