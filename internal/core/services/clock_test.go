package services_test

import "time"

// fixedClock pins Now() so accrual and status outcomes are deterministic.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newFixedClock(year int, month time.Month, day int) fixedClock {
	return fixedClock{now: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}
