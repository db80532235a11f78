package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// EmploymentType distinguishes how an instructor is contracted.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "fulltime"
	EmploymentPartTime EmploymentType = "parttime"
)

// ParseEmploymentType normalises a stored or submitted employment type.
func ParseEmploymentType(raw string) (EmploymentType, error) {
	switch t := EmploymentType(strings.ToLower(strings.TrimSpace(raw))); t {
	case EmploymentFullTime, EmploymentPartTime:
		return t, nil
	default:
		return "", fmt.Errorf("unknown employment type %q", raw)
	}
}

// IsEligible reports whether an instructor of the given type may declare
// availability on date. Full-time instructors self-register Sundays only;
// their other days are assigned by the institution.
func IsEligible(date Date, t EmploymentType) bool {
	if t == EmploymentFullTime {
		return date.Weekday() == time.Sunday
	}
	return true
}
