package core

import (
	"time"
)

// Date is a calendar day without a time component. The struct is comparable
// so it can be used directly in equality checks and as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// IsZero returns true if the date was never set.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// YearMonth renders the year-month bucket key as YYYY-MM.
func (d Date) YearMonth() string {
	return d.Time().Format("2006-01")
}

// dateLayouts accepted by ParseDate for string input, tried in order.
// Layouts with a time portion have it discarded.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate converts loosely-typed input into a Date. It accepts a Date
// unchanged, a time.Time truncated to its day, and strings in YYYY-MM-DD
// or ISO-8601 datetime form. Anything else fails with a format error
// naming the offending value.
func ParseDate(v any) (Date, error) {
	switch val := v.(type) {
	case Date:
		return val, nil
	case *Date:
		if val == nil {
			return Date{}, newError(KindFormat, "invalid date: nil")
		}
		return *val, nil
	case time.Time:
		return DateOf(val), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return DateOf(t), nil
			}
		}
		return Date{}, newError(KindFormat, "invalid date: %q", val)
	default:
		return Date{}, newError(KindFormat, "invalid date: %v (%T)", v, v)
	}
}
