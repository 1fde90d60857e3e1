package analytics

import (
	"time"

	"leadboard/internal/models"
)

type periodSummary struct {
	leads     int
	scheduled int
	purchased int
	revenue   float64
}

func (p periodSummary) conversionRate() float64 {
	return safeDivide(float64(p.purchased), float64(p.leads))
}

// summarize folds the leads created inside period. Leads without a usable
// creation timestamp belong to no period.
func summarize(leads []models.Lead, period models.DateRange) periodSummary {
	var s periodSummary
	for _, lead := range leads {
		if lead.CreatedAt == nil || !period.Contains(*lead.CreatedAt) {
			continue
		}
		s.leads++
		if lead.State == models.StateScheduled || lead.HasAppointment() {
			s.scheduled++
		}
		if lead.State == models.StatePurchased {
			s.purchased++
		}
		s.revenue += lead.Amount()
	}
	return s
}

// Metrics computes the headline numbers for the period selected by filter and
// their change against the preceding period. TotalLeads, InConversation and
// RequiresAttention are all-time counts.
func (c *Calculator) Metrics(leads []models.Lead, filter DateFilter, customStart, customEnd *time.Time) models.MetricsSnapshot {
	period := c.ResolveRange(filter, customStart, customEnd)
	previousPeriod := c.ResolvePreviousRange(filter, customStart, customEnd)

	current := summarize(leads, period)
	previous := summarize(leads, previousPeriod)

	snapshot := models.MetricsSnapshot{
		TotalLeads:     len(leads),
		NewLeads:       current.leads,
		Scheduled:      current.scheduled,
		Purchased:      current.purchased,
		ConversionRate: current.conversionRate(),
		Revenue:        current.revenue,
		Period:         period,
		PreviousPeriod: previousPeriod,
		Changes: models.MetricChanges{
			NewLeads:       change(float64(current.leads), float64(previous.leads)),
			Scheduled:      change(float64(current.scheduled), float64(previous.scheduled)),
			Purchased:      change(float64(current.purchased), float64(previous.purchased)),
			ConversionRate: change(current.conversionRate(), previous.conversionRate()),
			Revenue:        change(current.revenue, previous.revenue),
		},
	}

	for _, lead := range leads {
		if lead.State == models.StateInConversation {
			snapshot.InConversation++
		}
		if lead.State == models.StateRequiresHuman || lead.NeedsReview {
			snapshot.RequiresAttention++
		}
	}
	return snapshot
}
