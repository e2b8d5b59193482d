// Package streak computes how long a habit has been kept, from its start
// instant to now, and renders the result for display.
package streak

import (
	"fmt"
	"strings"
	"time"
)

// Breakdown is an elapsed duration split into whole days, hours and minutes.
type Breakdown struct {
	Days    int
	Hours   int
	Minutes int
}

// Elapsed returns the time between start and now. Both instants are compared
// in UTC; a now earlier than start yields the zero Breakdown.
func Elapsed(start, now time.Time) Breakdown {
	delta := now.UTC().Sub(start.UTC())
	if delta <= 0 {
		return Breakdown{}
	}

	total := int64(delta / time.Second)
	days := total / 86400
	rem := total % 86400

	return Breakdown{
		Days:    int(days),
		Hours:   int(rem / 3600),
		Minutes: int(rem % 3600 / 60),
	}
}

// Seconds returns the number of seconds the breakdown accounts for.
func (b Breakdown) Seconds() int64 {
	return int64(b.Days)*86400 + int64(b.Hours)*3600 + int64(b.Minutes)*60
}

// String renders the compact label: "3d 4h 5m", "4h 5m" or "5m".
func (b Breakdown) String() string {
	switch {
	case b.Days > 0:
		return fmt.Sprintf("%dd %dh %dm", b.Days, b.Hours, b.Minutes)
	case b.Hours > 0:
		return fmt.Sprintf("%dh %dm", b.Hours, b.Minutes)
	default:
		return fmt.Sprintf("%dm", b.Minutes)
	}
}

// Long renders the breakdown with spelled-out units, e.g. "3 Days 4 Hours 5 Minutes".
func (b Breakdown) Long() string {
	parts := make([]string, 0, 3)
	if b.Days > 0 {
		parts = append(parts, fmt.Sprintf("%d Days", b.Days))
	}
	if b.Days > 0 || b.Hours > 0 {
		parts = append(parts, fmt.Sprintf("%d Hours", b.Hours))
	}
	parts = append(parts, fmt.Sprintf("%d Minutes", b.Minutes))
	return strings.Join(parts, " ")
}

var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseStart parses an ISO-8601 start instant. Timestamps without a zone are
// taken to be UTC rather than local time.
func ParseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start instant %q", s)
}
