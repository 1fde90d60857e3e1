package analytics

import (
	"fmt"
	"time"

	"leadboard/internal/models"
)

const (
	staleLinkAfter         = 48 * time.Hour
	staleConversationAfter = 24 * time.Hour
)

type alertRule struct {
	kind     string
	severity models.Severity
	icon     string
	matches  func(lead models.Lead, now time.Time, today models.DateRange) bool
	message  func(count int) string
}

var alertRules = []alertRule{
	{
		kind:     "requires_human",
		severity: models.SeverityError,
		icon:     "🔴",
		matches: func(lead models.Lead, _ time.Time, _ models.DateRange) bool {
			return lead.State == models.StateRequiresHuman
		},
		message: func(n int) string {
			return fmt.Sprintf("%d lead%s en \"Requiere Humano\" - Responder urgente", n, plural(n, "", "s"))
		},
	},
	{
		kind:     "unconfirmed_today",
		severity: models.SeverityWarning,
		icon:     "🟡",
		matches: func(lead models.Lead, _ time.Time, today models.DateRange) bool {
			return lead.AppointmentAt != nil && today.Contains(*lead.AppointmentAt) && !lead.AppointmentConfirmed
		},
		message: func(n int) string {
			return fmt.Sprintf("%d cita%s hoy sin confirmar", n, plural(n, "", "s"))
		},
	},
	{
		kind:     "stale_link",
		severity: models.SeverityWarning,
		icon:     "🟡",
		matches: func(lead models.Lead, now time.Time, _ models.DateRange) bool {
			return lead.State == models.StateLinkSent && idleFor(lead, now) > staleLinkAfter
		},
		message: func(n int) string {
			return fmt.Sprintf("%d lead%s con link hace >48h sin agendar", n, plural(n, "", "s"))
		},
	},
	{
		kind:     "stale_conversation",
		severity: models.SeverityWarning,
		icon:     "🟡",
		matches: func(lead models.Lead, now time.Time, _ models.DateRange) bool {
			return lead.State == models.StateInConversation && idleFor(lead, now) > staleConversationAfter
		},
		message: func(n int) string {
			return fmt.Sprintf("%d lead%s en conversación hace >24h sin respuesta", n, plural(n, "", "s"))
		},
	},
}

// Alerts evaluates every alert rule against the current time. Each rule
// yields at most one alert carrying the number of matching leads; a lead may
// match several rules.
func (c *Calculator) Alerts(leads []models.Lead) []models.Alert {
	now := c.Now()
	today := c.ResolveRange(FilterToday, nil, nil)

	alerts := make([]models.Alert, 0, len(alertRules))
	for _, rule := range alertRules {
		count := 0
		for _, lead := range leads {
			if rule.matches(lead, now, today) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		alerts = append(alerts, models.Alert{
			Kind:    rule.kind,
			Type:    rule.severity,
			Icon:    rule.icon,
			Message: rule.message(count),
			Count:   count,
		})
	}
	return alerts
}

// idleFor is the time since the lead's last activity; zero when unknown so
// undated leads and leads with a malformed last-modified date never look
// stale.
func idleFor(lead models.Lead, now time.Time) time.Duration {
	activity := lead.Activity()
	if activity == nil {
		return 0
	}
	return now.Sub(*activity)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
