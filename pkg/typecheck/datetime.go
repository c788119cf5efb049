package typecheck

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/vtool/pkg/core"
)

var clockPattern = regexp.MustCompile(`^([0-9]{2}):([0-9]{2})(?::([0-9]{2})(?:\.([0-9]{1,9}))?)?$`)

// parseDate accepts YYYY-MM-DD and day-of-year YYYY-DDD.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-002"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClock accepts hh:mm[:ss[.fff]] and returns the offset from midnight.
func parseClock(s string) (time.Duration, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, false
	}
	d := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second
	if m[4] != "" {
		frac := m[4] + strings.Repeat("0", 9-len(m[4]))
		ns, _ := strconv.Atoi(frac)
		d += time.Duration(ns)
	}
	return d, true
}

// parseTime accepts a date, a date and time joined by T, or a time of day,
// each optionally followed by Z. Times of day are anchored at year 0.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSuffix(s, "Z")
	datePart, clockPart, hasT := strings.Cut(s, "T")
	if !hasT {
		if t, ok := parseDate(s); ok {
			return t, true
		}
		if d, ok := parseClock(s); ok {
			return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d), true
		}
		return time.Time{}, false
	}
	day, ok := parseDate(datePart)
	if !ok {
		return time.Time{}, false
	}
	d, ok := parseClock(clockPart)
	if !ok {
		return time.Time{}, false
	}
	return day.Add(d), true
}

type temporal struct {
	lengths
	name  string
	parse func(string) (time.Time, bool)
}

func (c *temporal) Type() string { return c.name }

func (c *temporal) Cast(s string) (any, error) {
	t, ok := c.parse(strings.TrimSpace(s))
	if !ok {
		return nil, &core.InvalidTypeError{Type: c.name, Value: s}
	}
	return t, nil
}

// NewDate returns the DATE checker.
func NewDate() Checker { return &temporal{name: TypeDate, parse: parseDate} }

// NewTime returns the TIME checker.
func NewTime() Checker { return &temporal{name: TypeTime, parse: parseTime} }
