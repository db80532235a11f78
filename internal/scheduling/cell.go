package scheduling

import "sort"

// Cell addresses one (date, timeslot) position of the availability grid.
type Cell struct {
	Date       Date `json:"date"`
	TimeslotID int  `json:"timeslot_id"`
}

// CellSet is an unordered set of cells.
type CellSet map[Cell]struct{}

// NewCellSet builds a set from cells.
func NewCellSet(cells ...Cell) CellSet {
	set := make(CellSet, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return set
}

// Add inserts c into the set.
func (s CellSet) Add(c Cell) { s[c] = struct{}{} }

// Has reports membership; a nil set contains nothing.
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the cells ordered by date then timeslot.
func (s CellSet) Sorted() []Cell {
	cells := make([]Cell, 0, len(s))
	for c := range s {
		cells = append(cells, c)
	}
	SortCells(cells)
	return cells
}

// SortCells orders cells by date then timeslot in place.
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cmp := cells[i].Date.Compare(cells[j].Date); cmp != 0 {
			return cmp < 0
		}
		return cells[i].TimeslotID < cells[j].TimeslotID
	})
}
