package analytics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadboard/internal/models"
)

func TestInsightsEscalationRanksFirst(t *testing.T) {
	leads := append(leadsIn(models.StateLinkSent, 2), leadIn(models.StateRequiresHuman))
	insights := Insights(leads, Advanced(leads))

	require.NotEmpty(t, insights)
	assert.Equal(t, 1, insights[0].Priority)
	assert.Equal(t, "🔴", insights[0].Icon)
	assert.Equal(t, models.CategoryWarning, insights[0].Type)
	assert.Contains(t, insights[0].Message, "1 lead requiere atención humana")
	assert.True(t, sort.SliceIsSorted(insights, func(i, j int) bool {
		return insights[i].Priority < insights[j].Priority
	}))
}

func TestInsightsRevenueAtRisk(t *testing.T) {
	leads := leadsIn(models.StateNotPurchased, 5)

	withTicket := Insights(leads, models.AdvancedMetrics{AvgTicket: 250})
	require.Len(t, withTicket, 1)
	assert.Equal(t, 2, withTicket[0].Priority)
	assert.Contains(t, withTicket[0].Message, `5 leads en "No Compró" = S/1,250 en ingresos potenciales.`)

	withoutTicket := Insights(leads, models.AdvancedMetrics{})
	require.Len(t, withoutTicket, 1)
	assert.Contains(t, withoutTicket[0].Message, "= 5 oportunidades sin cerrar")
}

func TestInsightsNoShowThreshold(t *testing.T) {
	assert.Empty(t, Insights(nil, models.AdvancedMetrics{NoShowRate: 0.2}))

	insights := Insights(nil, models.AdvancedMetrics{NoShowRate: 0.25})
	require.Len(t, insights, 1)
	assert.Equal(t, 3, insights[0].Priority)
	assert.Contains(t, insights[0].Message, "No-show en 25%")
}

func TestInsightsPendingActions(t *testing.T) {
	leads := append(leadsIn(models.StatePrequalified, 1), leadsIn(models.StateLinkSent, 3)...)
	insights := Insights(leads, models.AdvancedMetrics{})

	require.Len(t, insights, 2)
	assert.Equal(t, 4, insights[0].Priority)
	assert.Contains(t, insights[0].Message, "3 leads tienen el link sin usar")
	assert.Equal(t, 5, insights[1].Priority)
	assert.Contains(t, insights[1].Message, "1 lead está precalificado y esperan")
}

func TestInsightsCloseRateBands(t *testing.T) {
	cases := []struct {
		rate float64
		icon string
	}{
		{0, ""},
		{0.2, "⚡"},
		{0.3, ""},
		{0.45, ""},
		{0.5, "🏆"},
		{0.8, "🏆"},
	}
	for _, tc := range cases {
		insights := Insights(nil, models.AdvancedMetrics{CloseRate: tc.rate})
		if tc.icon == "" {
			assert.Empty(t, insights, "rate %v", tc.rate)
			continue
		}
		require.Len(t, insights, 1, "rate %v", tc.rate)
		assert.Equal(t, tc.icon, insights[0].Icon)
		assert.Equal(t, 6, insights[0].Priority)
	}
}

func TestInsightsPatterns(t *testing.T) {
	day, district, unknown := "Miércoles", "San Isidro", models.UnknownDistrict

	insights := Insights(nil, models.AdvancedMetrics{BestDay: &day, BestDistrict: &district})
	require.Len(t, insights, 2)
	assert.Contains(t, insights[0].Message, "Los miércoles recibes más leads")
	assert.Contains(t, insights[1].Message, "Leads de San Isidro convierten")

	assert.Empty(t, Insights(nil, models.AdvancedMetrics{BestDistrict: &unknown}))
}

func withPriority(insights []models.Insight, priority int) []models.Insight {
	var out []models.Insight
	for _, in := range insights {
		if in.Priority == priority {
			out = append(out, in)
		}
	}
	return out
}

func TestInsightsNoShowBoundaryFromCounts(t *testing.T) {
	atThreshold := append(leadsIn(models.StateNoShow, 1), leadsIn(models.StateAttended, 4)...)
	adv := Advanced(atThreshold)
	require.Equal(t, 0.2, adv.NoShowRate)
	assert.Empty(t, withPriority(Insights(atThreshold, adv), 3))

	above := append(leadsIn(models.StateNoShow, 1), leadsIn(models.StateAttended, 3)...)
	assert.Len(t, withPriority(Insights(above, Advanced(above)), 3), 1)
}

func TestInsightsCloseRateBoundariesFromCounts(t *testing.T) {
	cases := []struct {
		name      string
		purchased int
		attended  int
		icon      string
	}{
		{"attended without purchases", 0, 4, ""},
		{"just below weak band", 2, 5, "⚡"},
		{"weak boundary", 3, 7, ""},
		{"strong boundary", 1, 1, "🏆"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			leads := append(leadsIn(models.StatePurchased, tc.purchased), leadsIn(models.StateAttended, tc.attended)...)
			got := withPriority(Insights(leads, Advanced(leads)), 6)
			if tc.icon == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.icon, got[0].Icon)
		})
	}
}
