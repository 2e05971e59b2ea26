package collector

import (
	"math"
	"time"

	"StockDash/internal/model"
)

// ResampleWeekly aggregates bars into calendar weeks ending on Sunday, each
// labelled with that Sunday's date: first open, highest high, lowest low,
// last close and summed volume, NaN values skipped. A week without bars
// between two traded weeks becomes an all-NaN bar with zero volume.
func ResampleWeekly(daily []model.OHLCV) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.OHLCV
	var week model.OHLCV
	started := false

	flush := func() {
		weekly = append(weekly, week)
	}

	for _, d := range daily {
		end := weekEnd(d.Time)
		if started && !end.Equal(week.Time) {
			flush()
			for gap := week.Time.AddDate(0, 0, 7); gap.Before(end); gap = gap.AddDate(0, 0, 7) {
				weekly = append(weekly, emptyWeek(gap))
			}
			started = false
		}
		if !started {
			week = emptyWeek(end)
			started = true
		}
		mergeInto(&week, d)
	}
	flush()
	return weekly
}

func emptyWeek(end time.Time) model.OHLCV {
	nan := math.NaN()
	return model.OHLCV{Time: end, Open: nan, High: nan, Low: nan, Close: nan, Volume: 0}
}

func mergeInto(w *model.OHLCV, d model.OHLCV) {
	if math.IsNaN(w.Open) {
		w.Open = d.Open
	}
	if !math.IsNaN(d.High) && (math.IsNaN(w.High) || d.High > w.High) {
		w.High = d.High
	}
	if !math.IsNaN(d.Low) && (math.IsNaN(w.Low) || d.Low < w.Low) {
		w.Low = d.Low
	}
	if !math.IsNaN(d.Close) {
		w.Close = d.Close
	}
	if !math.IsNaN(d.Volume) {
		w.Volume += d.Volume
	}
}

// weekEnd returns the Sunday closing the week of t, at midnight UTC.
func weekEnd(t time.Time) time.Time {
	day := dateOf(t)
	return day.AddDate(0, 0, (7-int(day.Weekday()))%7)
}
