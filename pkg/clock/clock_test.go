package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const bangkok = 7 * 60

func TestMatchesWindow(t *testing.T) {
	tests := []struct {
		name      string
		scheduled string
		current   string
		window    int
		want      bool
	}{
		{name: "exact", scheduled: "07:30", current: "07:30", window: 30, want: true},
		{name: "inside window", scheduled: "07:30", current: "07:55", window: 30, want: true},
		{name: "window edge", scheduled: "07:30", current: "08:00", window: 30, want: true},
		{name: "outside window", scheduled: "07:30", current: "08:01", window: 30, want: false},
		{name: "midnight wraparound", scheduled: "23:50", current: "00:10", window: 30, want: true},
		{name: "wraparound reversed", scheduled: "00:05", current: "23:40", window: 30, want: true},
		{name: "single digit hour", scheduled: "7:30", current: "07:40", window: 30, want: true},
		{name: "seconds suffix", scheduled: "12:00:00", current: "12:10", window: 30, want: true},
		{name: "empty schedule", scheduled: "", current: "12:00", window: 30, want: false},
		{name: "malformed schedule", scheduled: "noon", current: "12:00", window: 30, want: false},
		{name: "out of range", scheduled: "25:00", current: "01:00", window: 30, want: false},
		{name: "zero window", scheduled: "12:00", current: "12:01", window: 0, want: false},
		{name: "default window", scheduled: "12:00", current: "12:30", window: -1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesWindow(tt.scheduled, tt.current, tt.window))
		})
	}
}

func TestMatchesWindowIsSymmetric(t *testing.T) {
	times := []string{"00:00", "00:10", "06:45", "07:30", "12:00", "12:29", "23:50", "bad", ""}
	for _, a := range times {
		for _, b := range times {
			for _, w := range []int{0, 15, 30, 90} {
				assert.Equal(t, MatchesWindow(a, b, w), MatchesWindow(b, a, w), "%s vs %s (w=%d)", a, b, w)
			}
		}
	}
}

func TestDayThreshold(t *testing.T) {
	// 20:00 UTC on Mar 1 is 03:00 on Mar 2 in UTC+7.
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	start := DayThreshold(now, bangkok, StartOfToday)
	assert.Equal(t, time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC), start)

	tomorrow := DayThreshold(now, bangkok, StartOfTomorrow)
	assert.Equal(t, time.Date(2025, 3, 2, 17, 0, 0, 0, time.UTC), tomorrow)

	// Same result as shifting by the offset, truncating, and shifting back.
	shifted := now.Add(bangkok * time.Minute)
	manual := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC).Add(-bangkok * time.Minute)
	assert.Equal(t, manual, start)
}

func TestDayThresholdNegativeOffset(t *testing.T) {
	now := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC) // 22:00 Mar 1 in UTC-5
	assert.Equal(t, time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC), DayThreshold(now, -300, StartOfToday))
}

func TestLocalDateAndHHMM(t *testing.T) {
	now := time.Date(2025, 3, 1, 20, 15, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-02", LocalDate(now, bangkok))
	assert.Equal(t, "03:15", LocalHHMM(now, bangkok))
}

func TestCalendarDaysBetween(t *testing.T) {
	created := time.Date(2025, 3, 1, 16, 59, 0, 0, time.UTC) // 23:59 local, Mar 1
	now := time.Date(2025, 3, 1, 17, 1, 0, 0, time.UTC)      // 00:01 local, Mar 2
	assert.Equal(t, 1, CalendarDaysBetween(created, now, bangkok))
	assert.Equal(t, 0, CalendarDaysBetween(created, now, 0))
	assert.Equal(t, 7, CalendarDaysBetween(created, now.AddDate(0, 0, 6), bangkok))
}

func TestFixedClock(t *testing.T) {
	c := &Fixed{At: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.Advance(90 * time.Minute)
	assert.Equal(t, time.Date(2025, 1, 1, 1, 30, 0, 0, time.UTC), c.Now())
}

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOk bool
	}{
		{"07:30", 450, true},
		{"7:05", 425, true},
		{"23:59:59", 1439, true},
		{" 00:00 ", 0, true},
		{"+7:30", 0, false},
		{"-1:30", 0, false},
		{"07:30:zz", 0, false},
		{"07:30:99", 0, false},
		{"07:3", 0, false},
		{"007:30", 0, false},
		{"24:00", 0, false},
		{"07:60", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHHMM(tt.in)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
