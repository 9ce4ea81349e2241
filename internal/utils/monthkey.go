package utils

import (
	"fmt"
	"time"
)

const monthKeyLayout = "2006-01"

// ParseMonthKey parses a "YYYY-MM" month-year slug.
func ParseMonthKey(monthYear string) (time.Time, error) {
	t, err := time.Parse(monthKeyLayout, monthYear)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", monthYear, err)
	}
	return t, nil
}

// FormatMonthKey returns the "YYYY-MM" slug for a time.
func FormatMonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// MonthDisplayName converts a "YYYY-MM" slug into its archive display
// name, e.g. "January 2025". Returns the slug unchanged if it does not
// parse.
func MonthDisplayName(monthYear string) string {
	t, err := ParseMonthKey(monthYear)
	if err != nil {
		return monthYear
	}
	return t.Format("January 2006")
}

// MonthWindow computes the submission open and close instants for a
// month in the given location. The close instant is the end of the
// close day.
func MonthWindow(monthYear string, openDay, closeDay int, loc *time.Location) (time.Time, time.Time, error) {
	t, err := ParseMonthKey(monthYear)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	open := time.Date(t.Year(), t.Month(), openDay, 0, 0, 0, 0, loc)
	closeAt := time.Date(t.Year(), t.Month(), closeDay, 23, 59, 59, 0, loc)
	return open, closeAt, nil
}
