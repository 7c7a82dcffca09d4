package model

import "time"

// Date truncates t to midnight UTC. Date-only columns go through this so
// equality checks do not depend on the time-of-day a value was parsed with.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	return Date(time.Now().UTC())
}
