package analytics

import (
	"sort"
	"time"

	"leadboard/internal/models"
)

const (
	DefaultTrendDays    = 30
	DefaultRevenueWeeks = 8
	dateLayout          = "2006-01-02"
)

// LeadsByDay counts leads created on each of the last days calendar days,
// today included, oldest first.
func (c *Calculator) LeadsByDay(leads []models.Lead, days int) []models.DailyCount {
	return c.countByDay(leads, days, func(lead models.Lead) *time.Time { return lead.CreatedAt })
}

// AppointmentsByDay counts appointments falling on each of the last days
// calendar days, today included, oldest first.
func (c *Calculator) AppointmentsByDay(leads []models.Lead, days int) []models.DailyCount {
	return c.countByDay(leads, days, func(lead models.Lead) *time.Time { return lead.AppointmentAt })
}

func (c *Calculator) countByDay(leads []models.Lead, days int, when func(models.Lead) *time.Time) []models.DailyCount {
	if days <= 0 {
		return []models.DailyCount{}
	}

	today := startOfDay(c.Now())
	first := today.AddDate(0, 0, -(days - 1))
	index := make(map[string]int, days)
	series := make([]models.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		key := first.AddDate(0, 0, i).Format(dateLayout)
		index[key] = i
		series = append(series, models.DailyCount{Date: key})
	}

	for _, lead := range leads {
		ts := when(lead)
		if ts == nil {
			continue
		}
		if i, ok := index[ts.In(c.loc).Format(dateLayout)]; ok {
			series[i].Leads++
		}
	}
	return series
}

// RevenueByWeek sums sale amounts by the Sunday-starting week of each lead's
// creation and keeps the most recent weeks that recorded any sale.
func (c *Calculator) RevenueByWeek(leads []models.Lead, weeks int) []models.WeeklyRevenue {
	totals := make(map[string]float64)
	for _, lead := range leads {
		if lead.SaleAmount == nil || lead.CreatedAt == nil {
			continue
		}
		created := startOfDay(lead.CreatedAt.In(c.loc))
		weekStart := created.AddDate(0, 0, -int(created.Weekday()))
		totals[weekStart.Format(dateLayout)] += *lead.SaleAmount
	}

	series := make([]models.WeeklyRevenue, 0, len(totals))
	for week, revenue := range totals {
		series = append(series, models.WeeklyRevenue{Week: week, Revenue: revenue})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Week < series[j].Week
	})
	if weeks >= 0 && len(series) > weeks {
		series = series[len(series)-weeks:]
	}
	return series
}

// Trends bundles the time series with their default windows.
func (c *Calculator) Trends(leads []models.Lead) models.Trends {
	return models.Trends{
		LeadsByDay:        c.LeadsByDay(leads, DefaultTrendDays),
		AppointmentsByDay: c.AppointmentsByDay(leads, DefaultTrendDays),
		RevenueByWeek:     c.RevenueByWeek(leads, DefaultRevenueWeeks),
	}
}
