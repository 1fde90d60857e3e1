package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadboard/internal/models"
)

func TestMetricsEmptyInput(t *testing.T) {
	c := fixedCalculator(t)
	m := c.Metrics(nil, FilterMonth, nil, nil)

	assert.Zero(t, m.TotalLeads)
	assert.Zero(t, m.NewLeads)
	assert.Zero(t, m.Scheduled)
	assert.Zero(t, m.Purchased)
	assert.Zero(t, m.Revenue)
	assert.Equal(t, 0.0, m.ConversionRate)
	assert.Nil(t, m.Changes.NewLeads)
	assert.Nil(t, m.Changes.Scheduled)
	assert.Nil(t, m.Changes.Purchased)
	assert.Nil(t, m.Changes.ConversionRate)
	assert.Nil(t, m.Changes.Revenue)
}

func TestMetricsPartitionsByCreation(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)

	sale := leadIn(models.StatePurchased)
	sale.CreatedAt = at(loc, 2024, time.March, 5, 11, 0)
	sale.AppointmentAt = at(loc, 2024, time.March, 7, 0, 0)
	sale.SaleAmount = amount(200)

	scheduled := leadIn(models.StateScheduled)
	scheduled.CreatedAt = at(loc, 2024, time.March, 12, 18, 0)

	previousSale := leadIn(models.StatePurchased)
	previousSale.CreatedAt = at(loc, 2024, time.February, 20, 9, 0)
	previousSale.SaleAmount = amount(100)

	previousLead := leadIn("")
	previousLead.CreatedAt = at(loc, 2024, time.February, 21, 9, 0)

	undated := leadIn(models.StateRequiresHuman)
	undated.SaleAmount = amount(999)

	old := leadIn(models.StateInConversation)
	old.CreatedAt = at(loc, 2024, time.January, 2, 9, 0)

	m := c.Metrics([]models.Lead{sale, scheduled, previousSale, previousLead, undated, old}, FilterMonth, nil, nil)

	assert.Equal(t, 6, m.TotalLeads)
	assert.Equal(t, 2, m.NewLeads)
	assert.Equal(t, 2, m.Scheduled)
	assert.Equal(t, 1, m.Purchased)
	assert.InDelta(t, 0.5, m.ConversionRate, 1e-9)
	assert.InDelta(t, 200, m.Revenue, 1e-9)
	assert.Equal(t, 1, m.InConversation)
	assert.Equal(t, 1, m.RequiresAttention)

	require.NotNil(t, m.Changes.NewLeads)
	assert.InDelta(t, 0, *m.Changes.NewLeads, 1e-9)
	assert.Nil(t, m.Changes.Scheduled)
	require.NotNil(t, m.Changes.Purchased)
	assert.InDelta(t, 0, *m.Changes.Purchased, 1e-9)
	require.NotNil(t, m.Changes.ConversionRate)
	assert.InDelta(t, 0, *m.Changes.ConversionRate, 1e-9)
	require.NotNil(t, m.Changes.Revenue)
	assert.InDelta(t, 1, *m.Changes.Revenue, 1e-9)
}

func TestMetricsCountsUnparsedAppointmentAsScheduled(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)

	lead := leadIn(models.StateLinkSent)
	lead.CreatedAt = at(loc, 2024, time.March, 13, 8, 0)
	lead.Categories[models.FieldAppointmentDate] = "mañana"

	m := c.Metrics([]models.Lead{lead}, FilterToday, nil, nil)
	assert.Equal(t, 1, m.Scheduled)
}

func TestMetricsAttentionIncludesManualReview(t *testing.T) {
	c := fixedCalculator(t)
	review := leadIn(models.StatePrequalified)
	review.NeedsReview = true

	m := c.Metrics([]models.Lead{review, leadIn(models.StateRequiresHuman)}, FilterWeek, nil, nil)
	assert.Equal(t, 2, m.RequiresAttention)
	assert.Zero(t, m.NewLeads)
}

func TestMetricsDeltaNullability(t *testing.T) {
	c := fixedCalculator(t)
	leads := mixedLeads(lima(t), 90)
	m := c.Metrics(leads, FilterMonth, nil, nil)

	previous := summarize(leads, m.PreviousPeriod)
	assert.Equal(t, previous.leads == 0, m.Changes.NewLeads == nil)
	assert.Equal(t, previous.scheduled == 0, m.Changes.Scheduled == nil)
	assert.Equal(t, previous.revenue == 0, m.Changes.Revenue == nil)
	assert.GreaterOrEqual(t, m.ConversionRate, 0.0)
	assert.LessOrEqual(t, m.ConversionRate, 1.0)
}
