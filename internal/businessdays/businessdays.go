// Package businessdays does the calendar arithmetic behind ticket expiry.
// A day counts as business iff it is not Saturday or Sunday; public
// holidays are not modeled.
package businessdays

import "time"

// Add advances start by n business days, walking one calendar day at a
// time. Add(d, 0) == d. The result never lands on a weekend for n > 0.
func Add(start time.Time, n int) time.Time {
	result := start
	added := 0
	for added < n {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return result
}

// IsExpired reports whether the deadline has passed.
func IsExpired(expiresAt, now time.Time) bool {
	return now.After(expiresAt)
}

// Remaining counts business days from now (inclusive) until expiresAt
// (exclusive). Zero when the deadline has passed.
func Remaining(now, expiresAt time.Time) int {
	days := 0
	for current := now; current.Before(expiresAt); current = current.AddDate(0, 0, 1) {
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
