package analytics

import (
	"strings"
	"time"

	"leadboard/internal/models"
)

// DateFilter names a reporting period.
type DateFilter string

const (
	FilterToday  DateFilter = "today"
	FilterWeek   DateFilter = "week"
	FilterMonth  DateFilter = "month"
	FilterCustom DateFilter = "custom"
)

// DefaultFilter is used for empty or unrecognized filter names.
const DefaultFilter = FilterMonth

// ParseDateFilter maps a filter name to a DateFilter, falling back to
// DefaultFilter for anything it does not recognize.
func ParseDateFilter(name string) DateFilter {
	switch f := DateFilter(strings.ToLower(strings.TrimSpace(name))); f {
	case FilterToday, FilterWeek, FilterMonth, FilterCustom:
		return f
	}
	return DefaultFilter
}

// ResolveRange returns the inclusive period selected by filter. A custom
// filter missing either bound resolves like month.
func (c *Calculator) ResolveRange(filter DateFilter, customStart, customEnd *time.Time) models.DateRange {
	now := c.Now()

	switch filter {
	case FilterToday:
		return models.DateRange{Start: startOfDay(now), End: endOfDay(now)}
	case FilterWeek:
		start := startOfWeek(now)
		return models.DateRange{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case FilterCustom:
		if customStart != nil && customEnd != nil {
			return models.DateRange{
				Start: startOfDay(customStart.In(c.loc)),
				End:   endOfDay(customEnd.In(c.loc)),
			}
		}
	}
	return monthRange(now)
}

// ResolvePreviousRange returns the period of equal length immediately
// preceding the one ResolveRange selects.
func (c *Calculator) ResolvePreviousRange(filter DateFilter, customStart, customEnd *time.Time) models.DateRange {
	now := c.Now()

	switch filter {
	case FilterToday:
		yesterday := now.AddDate(0, 0, -1)
		return models.DateRange{Start: startOfDay(yesterday), End: endOfDay(yesterday)}
	case FilterWeek:
		start := startOfWeek(now).AddDate(0, 0, -7)
		return models.DateRange{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case FilterCustom:
		if customStart != nil && customEnd != nil {
			start := startOfDay(customStart.In(c.loc))
			days := daysBetween(start, startOfDay(customEnd.In(c.loc)))
			if days < 0 {
				days = 0
			}
			return models.DateRange{
				Start: start.AddDate(0, 0, -(days + 1)),
				End:   endOfDay(start.AddDate(0, 0, -1)),
			}
		}
	}
	return monthRange(startOfMonth(now).AddDate(0, -1, 0))
}

func monthRange(t time.Time) models.DateRange {
	start := startOfMonth(t)
	return models.DateRange{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// startOfWeek uses ISO weeks, which begin on Monday.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// wholeDays truncates the elapsed time from a to b to full days.
func wholeDays(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
