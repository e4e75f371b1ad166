package streak

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// dayLayout is the ISO calendar date used in persisted values.
const dayLayout = time.DateOnly

// Day is a calendar date without time or zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{y, m, d}
}

// ParseDay parses an ISO date such as 2025-03-14.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, err
	}
	y, m, d := t.Date()
	return Day{y, m, d}, nil
}

func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

// Time returns midnight UTC of d. Arithmetic on UTC dates is free of DST
// shifts.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	y, m, dd := d.Time().AddDate(0, 0, n).Date()
	return Day{y, m, dd}
}

// Before reports whether d is earlier than o.
func (d Day) Before(o Day) bool {
	return d.Time().Before(o.Time())
}

// IsZero reports whether d is unset.
func (d Day) IsZero() bool {
	return d == Day{}
}
