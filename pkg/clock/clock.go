// Package clock holds the fixed-offset timezone helpers used by the coaching
// engine. The service targets a single civil timezone expressed as a minute
// offset from UTC, never an IANA zone.
package clock

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultWindowMinutes is the tolerance used when matching a scheduled
	// time-of-day against the current one.
	DefaultWindowMinutes = 30

	minutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

// Clock abstracts "now" so services can be driven by tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns the wall clock.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock frozen at a single instant.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time {
	return f.At
}

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}

// Boundary selects a local-midnight threshold.
type Boundary int

const (
	StartOfToday Boundary = iota
	StartOfTomorrow
)

// Zone returns the fixed zone for an offset in minutes.
func Zone(offsetMinutes int) *time.Location {
	sign := "+"
	abs := offsetMinutes
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, abs/60, abs%60), offsetMinutes*60)
}

// InZone expresses t as wall-clock time in the target zone.
func InZone(t time.Time, offsetMinutes int) time.Time {
	return t.In(Zone(offsetMinutes))
}

// NowInZone returns the current wall-clock time in the target zone.
func NowInZone(offsetMinutes int) time.Time {
	return InZone(time.Now(), offsetMinutes)
}

// DayThreshold returns the UTC instant of a local midnight boundary relative
// to now. The local calendar date is taken in the target zone, so the
// boundary never drifts by the zone offset the way truncating UTC would.
func DayThreshold(now time.Time, offsetMinutes int, which Boundary) time.Time {
	local := InZone(now, offsetMinutes)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	if which == StartOfTomorrow {
		start = start.AddDate(0, 0, 1)
	}
	return start.UTC()
}

// LocalDate formats the calendar date of t in the target zone.
func LocalDate(t time.Time, offsetMinutes int) string {
	return InZone(t, offsetMinutes).Format(dateLayout)
}

// LocalHHMM formats the time-of-day of t in the target zone.
func LocalHHMM(t time.Time, offsetMinutes int) string {
	return InZone(t, offsetMinutes).Format("15:04")
}

// CalendarDaysBetween counts local calendar days from `from` to `to`.
// Same local day yields 0.
func CalendarDaysBetween(from, to time.Time, offsetMinutes int) int {
	a := InZone(from, offsetMinutes)
	b := InZone(to, offsetMinutes)
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ParseHHMM parses "H:MM", "HH:MM" or "HH:MM:SS" into minutes after midnight.
// Seconds are validated and then dropped.
func ParseHHMM(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, ok := parseDigits(parts[0], 1, 2)
	if !ok || h > 23 {
		return 0, false
	}
	m, ok := parseDigits(parts[1], 2, 2)
	if !ok || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		sec, ok := parseDigits(parts[2], 2, 2)
		if !ok || sec > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// parseDigits accepts only ASCII digits, so signs and spaces are rejected.
func parseDigits(s string, minLen, maxLen int) (int, bool) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// MatchesWindow reports whether two times of day are within windowMinutes of
// each other, wrapping around midnight. Empty or malformed input never
// matches. A negative window selects DefaultWindowMinutes.
func MatchesWindow(scheduledHHMM, currentHHMM string, windowMinutes int) bool {
	if windowMinutes < 0 {
		windowMinutes = DefaultWindowMinutes
	}
	scheduled, ok := ParseHHMM(scheduledHHMM)
	if !ok {
		return false
	}
	current, ok := ParseHHMM(currentHHMM)
	if !ok {
		return false
	}
	diff := scheduled - current
	if diff < 0 {
		diff = -diff
	}
	if wrapped := minutesPerDay - diff; wrapped < diff {
		diff = wrapped
	}
	return diff <= windowMinutes
}
