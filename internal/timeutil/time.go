// Package timeutil holds the clock abstraction and the timestamp codec shared
// by the catalog, order and cart packages.
package timeutil

import (
	"strings"
	"time"
)

// ISOLayout is the canonical encoding written for every stored timestamp.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Clock supplies the current time. Operations read it once and pass the value down.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock.
var System Clock = systemClock{}

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// local layouts carry no zone and are read in the server's location, the way a
// browser reads a datetime-local input.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads a stored or user-supplied timestamp. ok is false when the value
// cannot be interpreted as a point in time.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	// date-only values are UTC midnight
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Format encodes t in the canonical UTC form with millisecond precision.
func Format(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Millis returns the epoch milliseconds of s, or 0 when s does not parse.
func Millis(s string) int64 {
	t, ok := Parse(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}
