package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadboard/internal/models"
)

func lima(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)
	return loc
}

// fixedCalculator pins "now" to Wednesday 2024-03-13 10:00 in Lima.
func fixedCalculator(t *testing.T) *Calculator {
	t.Helper()
	loc := lima(t)
	return NewCalculator(loc).WithClock(func() time.Time {
		return time.Date(2024, time.March, 13, 10, 0, 0, 0, loc)
	})
}

func at(loc *time.Location, year int, month time.Month, day, hour, minute int) *time.Time {
	ts := time.Date(year, month, day, hour, minute, 0, 0, loc)
	return &ts
}

func amount(v float64) *float64 {
	return &v
}

func leadIn(state models.CRMState) models.Lead {
	return models.Lead{State: state, Categories: map[string]string{}}
}

func leadsIn(state models.CRMState, n int) []models.Lead {
	out := make([]models.Lead, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, leadIn(state))
	}
	return out
}

// mixedLeads cycles through every known state plus an unknown one so
// property checks see every membership set.
func mixedLeads(loc *time.Location, n int) []models.Lead {
	states := append(append([]models.CRMState{}, models.KnownStates...), "Otro", "")
	out := make([]models.Lead, 0, n)
	for i := 0; i < n; i++ {
		lead := leadIn(states[i%len(states)])
		if i%3 != 0 {
			lead.CreatedAt = at(loc, 2024, time.March, 1+i%20, i%24, 0)
		}
		if i%4 == 0 {
			lead.SaleAmount = amount(float64(50 * (i % 5)))
		}
		if i%5 == 0 {
			lead.QualificationDistrict = "Miraflores"
			lead.Categories[models.FieldQualificationDistrict] = "Miraflores"
		}
		out = append(out, lead)
	}
	return out
}
