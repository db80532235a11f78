package scheduling

import "time"

// DaysPerWeek is the number of columns in a week grid.
const DaysPerWeek = 7

// WeekStart returns the Monday on or before d.
func WeekStart(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// WeekEnd returns the Sunday of the week that begins at weekStart.
func WeekEnd(weekStart Date) Date {
	return weekStart.AddDays(DaysPerWeek - 1)
}

// WeekDates lists Monday through Sunday of the week starting at weekStart.
func WeekDates(weekStart Date) []Date {
	dates := make([]Date, DaysPerWeek)
	for i := range dates {
		dates[i] = weekStart.AddDays(i)
	}
	return dates
}

// WeeksOfYear lists the Monday of every week that overlaps the calendar year,
// including weeks split by the year boundary.
func WeeksOfYear(year int) []Date {
	first := WeekStart(NewDate(year, time.January, 1))
	last := NewDate(year, time.December, 31)

	weeks := make([]Date, 0, 54)
	for w := first; !w.After(last); w = w.AddDays(DaysPerWeek) {
		weeks = append(weeks, w)
	}
	return weeks
}

// Shift moves a week start by delta weeks in either direction.
func Shift(weekStart Date, delta int) Date {
	return weekStart.AddDays(delta * DaysPerWeek)
}
