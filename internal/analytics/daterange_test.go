package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadboard/internal/models"
)

func requireRange(t *testing.T, got models.DateRange, start, end time.Time) {
	t.Helper()
	require.True(t, start.Equal(got.Start), "start: want %s got %s", start, got.Start)
	require.True(t, end.Equal(got.End), "end: want %s got %s", end, got.End)
}

func TestResolveRangeToday(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)

	current := c.ResolveRange(FilterToday, nil, nil)
	requireRange(t, current, time.Date(2024, 3, 13, 0, 0, 0, 0, loc), time.Date(2024, 3, 13, 23, 59, 59, 999999999, loc))

	previous := c.ResolvePreviousRange(FilterToday, nil, nil)
	requireRange(t, previous, time.Date(2024, 3, 12, 0, 0, 0, 0, loc), time.Date(2024, 3, 12, 23, 59, 59, 999999999, loc))
}

func TestResolveRangeWeekStartsOnMonday(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)

	current := c.ResolveRange(FilterWeek, nil, nil)
	requireRange(t, current, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), time.Date(2024, 3, 17, 23, 59, 59, 999999999, loc))

	previous := c.ResolvePreviousRange(FilterWeek, nil, nil)
	requireRange(t, previous, time.Date(2024, 3, 4, 0, 0, 0, 0, loc), time.Date(2024, 3, 10, 23, 59, 59, 999999999, loc))
}

func TestResolveRangeMonth(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)

	current := c.ResolveRange(FilterMonth, nil, nil)
	requireRange(t, current, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), time.Date(2024, 3, 31, 23, 59, 59, 999999999, loc))

	previous := c.ResolvePreviousRange(FilterMonth, nil, nil)
	requireRange(t, previous, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), time.Date(2024, 2, 29, 23, 59, 59, 999999999, loc))
}

func TestResolveRangeCustom(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)
	start := at(loc, 2024, time.January, 10, 0, 0)
	end := at(loc, 2024, time.January, 16, 0, 0)

	current := c.ResolveRange(FilterCustom, start, end)
	requireRange(t, current, time.Date(2024, 1, 10, 0, 0, 0, 0, loc), time.Date(2024, 1, 16, 23, 59, 59, 999999999, loc))

	previous := c.ResolvePreviousRange(FilterCustom, start, end)
	requireRange(t, previous, time.Date(2024, 1, 3, 0, 0, 0, 0, loc), time.Date(2024, 1, 9, 23, 59, 59, 999999999, loc))
}

func TestResolveRangeCustomWithoutBoundsFallsBackToMonth(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)
	start := at(loc, 2024, time.January, 10, 0, 0)

	require.Equal(t, c.ResolveRange(FilterMonth, nil, nil), c.ResolveRange(FilterCustom, start, nil))
	require.Equal(t, c.ResolvePreviousRange(FilterMonth, nil, nil), c.ResolvePreviousRange(FilterCustom, nil, start))
}

func TestParseDateFilter(t *testing.T) {
	require.Equal(t, FilterToday, ParseDateFilter("today"))
	require.Equal(t, FilterWeek, ParseDateFilter(" WEEK "))
	require.Equal(t, FilterCustom, ParseDateFilter("custom"))
	require.Equal(t, DefaultFilter, ParseDateFilter("quarter"))
	require.Equal(t, FilterMonth, ParseDateFilter(""))

	c := fixedCalculator(t)
	require.Equal(t, c.ResolveRange(FilterMonth, nil, nil), c.ResolveRange(DateFilter("quarter"), nil, nil))
}
