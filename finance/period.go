// Package finance holds the money arithmetic behind budgets, goals, balance
// and analytics. Nothing here touches storage.
package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
)

var ErrInvalidPeriod = errors.New("invalid budget period")

// ParsePeriod normalises a period name. Empty input means monthly.
func ParsePeriod(s string) (string, error) {
	switch p := strings.ToUpper(strings.TrimSpace(s)); p {
	case "":
		return PeriodMonthly, nil
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
}

// Window is a half-open date range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// PeriodWindow returns the window of the given period, anchored at
// startDate, that contains now. When now is before startDate the first
// window is returned. Dates are truncated to UTC days.
func PeriodWindow(period string, startDate, now time.Time) (Window, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return Window{}, err
	}
	anchor := truncateDay(startDate)
	day := truncateDay(now)

	step := func(n int) time.Time {
		switch p {
		case PeriodWeekly:
			return anchor.AddDate(0, 0, 7*n)
		case PeriodYearly:
			return addMonthsClamped(anchor, 12*n)
		default:
			return addMonthsClamped(anchor, n)
		}
	}

	if day.Before(anchor) {
		return Window{Start: anchor, End: step(1)}, nil
	}

	var n int
	switch p {
	case PeriodWeekly:
		n = int(day.Sub(anchor).Hours()/24) / 7
	case PeriodYearly:
		n = day.Year() - anchor.Year()
	default:
		n = (day.Year()-anchor.Year())*12 + int(day.Month()) - int(anchor.Month())
	}
	// month and year arithmetic can overshoot by one when the anchor day is
	// later in the month than today
	for n > 0 && step(n).After(day) {
		n--
	}
	for !step(n + 1).After(day) {
		n++
	}
	return Window{Start: step(n), End: step(n + 1)}, nil
}

// MonthWindow is the calendar month containing the given year and month.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addMonthsClamped adds n months, clamping the day to the target month's
// last day so Jan 31 + 1 month is Feb 28/29 rather than March 2/3.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
