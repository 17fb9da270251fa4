// Package derive computes the three time features attached to every sales
// record: time-of-day bucket, weekday name, and month name. All three are
// pure functions of the record's date and clock; the stored fields are
// caches and must be recomputed whenever date or clock change.
package derive

import (
	"time"

	"salespipe/internal/sales"
)

// Bucket boundaries in seconds since midnight. Both bounds are inclusive:
// 12:00:00 is still Morning and 16:30:00 is still Afternoon. The half-hour
// Afternoon end matches the source data's convention and is kept as-is.
const (
	morningEnd   = 12 * 3600
	afternoonEnd = 16*3600 + 30*60
)

// TimeOfDay buckets a clock value into Morning, Afternoon, or Evening.
// Total: every valid clock maps to exactly one bucket.
func TimeOfDay(c sales.ClockTime) string {
	switch {
	case int(c) <= morningEnd:
		return "Morning"
	case int(c) <= afternoonEnd:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// DayName returns the full Gregorian weekday name for d ("Monday".."Sunday").
func DayName(d time.Time) string { return d.Weekday().String() }

// MonthName returns the full month name for d ("January".."December").
func MonthName(d time.Time) string { return d.Month().String() }

// Enrich attaches the derived fields to every record in place. It must run
// to completion before any report is evaluated; afterwards the record set is
// read-only.
func Enrich(recs []*sales.Record) {
	for _, r := range recs {
		r.TimeOfDay = TimeOfDay(r.Clock)
		r.DayName = DayName(r.Date)
		r.Month = MonthName(r.Date)
	}
}
