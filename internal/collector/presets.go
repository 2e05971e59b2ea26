package collector

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownPreset is returned for a date preset the dashboard does not offer.
var ErrUnknownPreset = errors.New("unknown date preset")

// Date presets offered by the dashboard.
const (
	PresetNone     = "None"
	Preset1Month   = "1-Month"
	Preset6Months  = "6-Months"
	Preset1Year    = "1-Year"
	Preset5Years   = "5-Years"
	PresetMax      = "Max"
	defaultStartYr = 2015
	maxStartYr     = 1980
)

// Presets lists the presets in display order.
var Presets = []string{PresetNone, Preset1Month, Preset6Months, Preset1Year, Preset5Years, PresetMax}

// ResolveRange turns a preset into a [start, end) range. With PresetNone (or
// an empty preset) the explicit start and end are used, defaulting to
// 2015-01-01 and today; explicit values are truncated to their date. Other
// presets count back from today and end after it, so today's bar is included.
func ResolveRange(preset string, start, end, now time.Time) (time.Time, time.Time, error) {
	today := dateOf(now)
	tomorrow := today.AddDate(0, 0, 1)
	switch preset {
	case "", PresetNone:
		if start.IsZero() {
			start = time.Date(defaultStartYr, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		if end.IsZero() {
			end = today
		}
		start, end = dateOf(start), dateOf(end)
		if !start.Before(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("start %s must be before end %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
		return start, end, nil
	case Preset1Month:
		return addMonths(today, -1), tomorrow, nil
	case Preset6Months:
		return addMonths(today, -6), tomorrow, nil
	case Preset1Year:
		return addMonths(today, -12), tomorrow, nil
	case Preset5Years:
		return addMonths(today, -60), tomorrow, nil
	case PresetMax:
		return time.Date(maxStartYr, time.January, 1, 0, 0, 0, 0, time.UTC), tomorrow, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addMonths shifts t by n calendar months, clamping the day to the end of the
// target month (Mar 31 minus one month is Feb 29 in a leap year).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
