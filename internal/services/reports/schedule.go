// Package reports implements the report scheduling, caching, and
// generation pipeline behind the consumer-facing advisory API.
package reports

import (
	"time"
)

// Decision is the outcome of the scheduling policy for a recap request.
type Decision int

const (
	// UseCache returns the cached artifact unchanged.
	UseCache Decision = iota
	// Generate produces a fresh artifact and overwrites the cache.
	Generate
	// UseStale returns the cached artifact annotated as a previous
	// report with the next window time.
	UseStale
	// UsePlaceholder returns mock content annotated with the next
	// window time, without touching the cache.
	UsePlaceholder
)

// Slot is one of the three scheduled day partitions, in UTC.
type Slot int

const (
	SlotEuropeanOpen Slot = iota // [07:00, 12:00)
	SlotAmericanOpen             // [12:00, 17:00)
	SlotEndOfDay                 // [17:00, 07:00) wrapping past midnight
)

// Session returns the display name of the slot.
func (s Slot) Session() string {
	switch s {
	case SlotEuropeanOpen:
		return "European Open"
	case SlotAmericanOpen:
		return "American Open"
	default:
		return "End-of-Day"
	}
}

// WindowTolerance is how far from an anchor instant generation is
// still permitted. Both boundaries are inclusive: generation is
// allowed at exactly anchor-30m and at exactly anchor+30m.
const WindowTolerance = 30 * time.Minute

// anchorHours are the scheduled generation instants (UTC hour-of-day).
var anchorHours = []int{7, 12, 17}

// SlotAt returns the slot the given instant falls in (UTC).
func SlotAt(t time.Time) Slot {
	switch h := t.UTC().Hour(); {
	case h >= 7 && h < 12:
		return SlotEuropeanOpen
	case h >= 12 && h < 17:
		return SlotAmericanOpen
	default:
		return SlotEndOfDay
	}
}

// slotKey identifies one concrete slot occurrence: the slot plus the
// calendar day it started. Hours before 07:00 belong to the previous
// day's End-of-Day slot.
type slotKey struct {
	year int
	day  int
	slot Slot
}

func slotKeyAt(t time.Time) slotKey {
	t = t.UTC()
	slot := SlotAt(t)
	if slot == SlotEndOfDay && t.Hour() < 7 {
		t = t.AddDate(0, 0, -1)
	}
	return slotKey{year: t.Year(), day: t.YearDay(), slot: slot}
}

// InWindow reports whether t is within the generation window of any
// anchor instant (inclusive on both sides).
func InWindow(t time.Time) bool {
	t = t.UTC()
	for _, hour := range anchorHours {
		anchor := time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
		diff := t.Sub(anchor)
		if diff < 0 {
			diff = -diff
		}
		if diff <= WindowTolerance {
			return true
		}
	}
	return false
}

// NextAnchor returns the next scheduled anchor instant strictly after t.
func NextAnchor(t time.Time) time.Time {
	t = t.UTC()
	for _, hour := range anchorHours {
		anchor := time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
		if anchor.After(t) {
			return anchor
		}
	}
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), anchorHours[0], 0, 0, 0, time.UTC)
}

// Generation records when the cached recap was produced.
type Generation struct {
	At time.Time
}

// Decide is the pure scheduling policy for the daily recap, decoupled
// from I/O so the decision table is directly testable:
//
//	cache state                        | in window | decision
//	-----------------------------------+-----------+---------------
//	empty or stale (different day)     | yes       | Generate
//	empty or stale (different day)     | no        | UsePlaceholder
//	same day, same slot                | any       | UseCache
//	same day, different slot           | yes       | Generate
//	same day, different slot           | no        | UseStale
func Decide(now time.Time, last *Generation) Decision {
	now = now.UTC()
	open := InWindow(now)

	if last == nil {
		if open {
			return Generate
		}
		return UsePlaceholder
	}

	lastKey := slotKeyAt(last.At)
	nowKey := slotKeyAt(now)

	if lastKey == nowKey {
		return UseCache
	}

	if lastKey.year == nowKey.year && lastKey.day == nowKey.day {
		if open {
			return Generate
		}
		return UseStale
	}

	if open {
		return Generate
	}
	return UsePlaceholder
}

// FormatNextWindow renders the next anchor after now as a
// human-readable time for the NextGeneration field.
func FormatNextWindow(now time.Time) string {
	now = now.UTC()
	next := NextAnchor(now)
	if next.YearDay() != now.YearDay() || next.Year() != now.Year() {
		return "tomorrow " + next.Format("15:04") + " UTC"
	}
	return next.Format("15:04") + " UTC"
}
