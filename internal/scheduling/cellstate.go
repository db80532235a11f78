package scheduling

// CellState is the rendered state of a grid cell.
type CellState string

const (
	CellOccupied   CellState = "OCCUPIED"
	CellRestricted CellState = "RESTRICTED"
	CellDeclared   CellState = "DECLARED"
	CellFree       CellState = "FREE"
)

// Interactive reports whether the instructor may toggle a cell in this state.
func (s CellState) Interactive() bool {
	return s == CellDeclared || s == CellFree
}

// CellInput carries the facts needed to resolve a single cell.
type CellInput struct {
	Cell     Cell
	Type     EmploymentType
	Occupied bool
	Declared bool
}

// CellRule maps a predicate to the state it yields when it matches.
type CellRule struct {
	State   CellState
	Matches func(CellInput) bool
}

// DefaultRules is the resolution order: occupied, restricted, declared.
// A cell matching none of them is free.
var DefaultRules = []CellRule{
	{State: CellOccupied, Matches: isOccupied},
	{State: CellRestricted, Matches: isRestricted},
	{State: CellDeclared, Matches: isDeclared},
}

func isOccupied(in CellInput) bool { return in.Occupied }
func isRestricted(in CellInput) bool { return !IsEligible(in.Cell.Date, in.Type) }
func isDeclared(in CellInput) bool { return in.Declared }

// ResolveCell returns the state of the first matching rule, or CellFree.
func ResolveCell(in CellInput, rules []CellRule) CellState {
	for _, rule := range rules {
		if rule.Matches(in) {
			return rule.State
		}
	}
	return CellFree
}

// Violation explains why a cell cannot be written.
type Violation string

const (
	ViolationNone        Violation = ""
	ViolationInvalidDate Violation = "invalid_date"
	ViolationInvalidSlot Violation = "invalid_timeslot"
	ViolationOccupied    Violation = "occupied"
	ViolationIneligible  Violation = "ineligible"
)

// CheckWritable applies the write guards in priority order. Occupancy is
// checked before eligibility so an occupied Sunday reports as occupied.
func CheckWritable(c Cell, t EmploymentType, occupied CellSet) Violation {
	switch {
	case c.Date.IsZero():
		return ViolationInvalidDate
	case !IsValidSlot(c.TimeslotID):
		return ViolationInvalidSlot
	case occupied.Has(c):
		return ViolationOccupied
	case !IsEligible(c.Date, t):
		return ViolationIneligible
	default:
		return ViolationNone
	}
}
