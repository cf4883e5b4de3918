package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := ParseDate(s)
	return t
}

func TestBusinessDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "same day", a: "2024-03-06", b: "2024-03-06", want: 0},
		{name: "next weekday", a: "2024-03-06", b: "2024-03-07", want: 1},
		{name: "friday to monday", a: "2024-03-08", b: "2024-03-11", want: 1},
		{name: "saturday to monday", a: "2024-03-09", b: "2024-03-11", want: 1},
		{name: "reversed order", a: "2024-03-11", b: "2024-03-04", want: 5},
		{name: "two weeks", a: "2024-03-04", b: "2024-03-18", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDaysBetween(day(tt.a), day(tt.b)))
		})
	}
}

func TestAddBusinessDays(t *testing.T) {
	assert.Equal(t, day("2024-03-11"), AddBusinessDays(day("2024-03-08"), 1))
	assert.Equal(t, day("2024-03-01"), AddBusinessDays(day("2024-03-08"), -5))
	assert.Equal(t, day("2024-03-08"), AddBusinessDays(day("2024-03-08"), 0))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.February)
	assert.Equal(t, day("2024-02-01"), start)
	assert.Equal(t, day("2024-02-29"), end)
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2024-13-01")
	assert.Error(t, err)

	d, err := ParseDate("2024-01-31")
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
}
