// Package calendar computes monthly futures expiration dates. Contracts expire
// on the third Wednesday of the month.
package calendar

import "time"

// DefaultCutoffHour is the hour on expiration day from which open positions
// are force-closed and new entries are suppressed.
const DefaultCutoffHour = 13

// ExpirationDate returns the expiration date of the contract month at
// midnight in loc. A nil loc means UTC.
func ExpirationDate(year int, month time.Month, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	day := 21 - (mondayWeekday(first)+4)%7

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// IsExpirationDay reports whether t falls on the expiration date of its own
// month. Only the calendar date in t's location is compared.
func IsExpirationDay(t time.Time) bool {
	expiration := ExpirationDate(t.Year(), t.Month(), t.Location())

	return t.Day() == expiration.Day()
}

// ForcedCloseDue reports whether t is on expiration day at or after cutoffHour.
func ForcedCloseDue(t time.Time, cutoffHour int) bool {
	return IsExpirationDay(t) && t.Hour() >= cutoffHour
}

// mondayWeekday numbers the weekday with Monday as 0 and Sunday as 6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
