package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// TruncateDate drops the clock part and normalises to UTC.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", value)
	}
	return TruncateDate(t), nil
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// BusinessDaysBetween counts the weekdays after the earlier date up to and
// including the later one. Equal dates yield zero; Friday to Monday yields one.
func BusinessDaysBetween(a, b time.Time) int {
	from, to := TruncateDate(a), TruncateDate(b)
	if to.Before(from) {
		from, to = to, from
	}

	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			days++
		}
	}
	return days
}

// AddBusinessDays moves n weekdays forward (or backward when n is negative).
func AddBusinessDays(t time.Time, n int) time.Time {
	d := TruncateDate(t)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		d = d.AddDate(0, 0, step)
		if !IsWeekend(d) {
			n--
		}
	}
	return d
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
