// Package resample converts daily OHLCV series to coarser timeframes.
package resample

import (
	"errors"
	"fmt"
	"time"

	"finboard/internal/models"
)

// ErrUnsupportedTimeframe is returned for a timeframe the resampler does
// not handle. Unsupported input is surfaced, never silently passed through.
var ErrUnsupportedTimeframe = errors.New("unsupported timeframe")

// Resample aggregates a daily series into the target timeframe.
//
// Daily input is returned unchanged. For coarser timeframes, bars are
// grouped into non-overlapping calendar periods (week ending Friday,
// calendar month, calendar quarter) and aggregated as open=first,
// high=max, low=min, close=last, volume=sum. Periods with no source
// bars simply do not appear in the output; nothing is interpolated.
func Resample(bars []models.Bar, timeframe models.Timeframe) ([]models.Bar, error) {
	if timeframe == models.TimeframeDaily {
		return bars, nil
	}

	periodEnd, err := periodEndFunc(timeframe)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}

	var out []models.Bar
	var current models.Bar
	var currentEnd time.Time
	open := false

	for _, bar := range bars {
		end := periodEnd(bar.Timestamp)
		if open && end.Equal(currentEnd) {
			if bar.High > current.High {
				current.High = bar.High
			}
			if bar.Low < current.Low {
				current.Low = bar.Low
			}
			current.Close = bar.Close
			current.Volume += bar.Volume
			continue
		}
		if open {
			out = append(out, current)
		}
		current = models.Bar{
			Timestamp: end,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
		}
		currentEnd = end
		open = true
	}
	if open {
		out = append(out, current)
	}
	return out, nil
}

func periodEndFunc(timeframe models.Timeframe) (func(time.Time) time.Time, error) {
	switch timeframe {
	case models.TimeframeWeekly:
		return weekEndFriday, nil
	case models.TimeframeMonthly:
		return monthEnd, nil
	case models.TimeframeQuarterly:
		return quarterEnd, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimeframe, timeframe)
	}
}

// weekEndFriday returns the Friday that closes the bar's week. Weeks run
// Saturday through Friday, so a Saturday bar belongs to the next week.
func weekEndFriday(t time.Time) time.Time {
	days := int(time.Friday - t.Weekday())
	if days < 0 {
		days += 7
	}
	return dateOnly(t).AddDate(0, 0, days)
}

func monthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func quarterEnd(t time.Time) time.Time {
	quarterStartMonth := time.Month((int(t.Month())-1)/3*3 + 1)
	firstOfNext := time.Date(t.Year(), quarterStartMonth, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 3, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
