package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadboard/internal/models"
	"leadboard/internal/transformer"
)

func TestAlertsEscalation(t *testing.T) {
	c := fixedCalculator(t)
	alerts := c.Alerts([]models.Lead{leadIn(models.StateRequiresHuman)})

	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityError, alerts[0].Type)
	assert.Equal(t, 1, alerts[0].Count)
	assert.Equal(t, "🔴", alerts[0].Icon)
	assert.Equal(t, `1 lead en "Requiere Humano" - Responder urgente`, alerts[0].Message)
}

func TestAlertsEvaluateRulesIndependently(t *testing.T) {
	c := fixedCalculator(t)
	loc := lima(t)

	unconfirmed := leadIn(models.StateScheduled)
	unconfirmed.AppointmentAt = at(loc, 2024, time.March, 13, 0, 0)

	confirmed := unconfirmed
	confirmed.AppointmentConfirmed = true

	tomorrow := leadIn(models.StateScheduled)
	tomorrow.AppointmentAt = at(loc, 2024, time.March, 14, 0, 0)

	staleLink := leadIn(models.StateLinkSent)
	staleLink.UpdatedAt = at(loc, 2024, time.March, 10, 9, 0)

	freshLink := leadIn(models.StateLinkSent)
	freshLink.CreatedAt = at(loc, 2024, time.March, 1, 9, 0)
	freshLink.UpdatedAt = at(loc, 2024, time.March, 12, 12, 0)

	createdLink := leadIn(models.StateLinkSent)
	createdLink.CreatedAt = at(loc, 2024, time.March, 1, 9, 0)

	undatedLink := leadIn(models.StateLinkSent)

	staleTalk := leadIn(models.StateInConversation)
	staleTalk.UpdatedAt = at(loc, 2024, time.March, 12, 9, 0)
	staleTalk.AppointmentAt = at(loc, 2024, time.March, 13, 16, 0)

	alerts := c.Alerts([]models.Lead{unconfirmed, confirmed, tomorrow, staleLink, freshLink, createdLink, undatedLink, staleTalk})
	require.Len(t, alerts, 3)

	assert.Equal(t, "unconfirmed_today", alerts[0].Kind)
	assert.Equal(t, 2, alerts[0].Count)
	assert.Equal(t, "2 citas hoy sin confirmar", alerts[0].Message)

	assert.Equal(t, "stale_link", alerts[1].Kind)
	assert.Equal(t, models.SeverityWarning, alerts[1].Type)
	assert.Equal(t, 2, alerts[1].Count)
	assert.Equal(t, "2 leads con link hace >48h sin agendar", alerts[1].Message)

	assert.Equal(t, "stale_conversation", alerts[2].Kind)
	assert.Equal(t, 1, alerts[2].Count)
	assert.Equal(t, "1 lead en conversación hace >24h sin respuesta", alerts[2].Message)
}

func TestAlertsEmptyInput(t *testing.T) {
	c := fixedCalculator(t)
	assert.Empty(t, c.Alerts(nil))
	assert.NotNil(t, c.Alerts(nil))
}

func TestAlertsSkipMalformedLastModified(t *testing.T) {
	c := fixedCalculator(t)
	tr := transformer.New(lima(t))

	leads := tr.NormalizeLeads([]models.RawRecord{{
		models.FieldState:     "Link Enviado",
		models.FieldCreatedAt: "2024-03-01 10:00:00",
		models.FieldUpdatedAt: "ayer por la tarde",
	}})
	require.Len(t, leads, 1)
	assert.Nil(t, leads[0].Activity())
	assert.Empty(t, c.Alerts(leads))

	neverModified := tr.NormalizeLeads([]models.RawRecord{{
		models.FieldState:     "Link Enviado",
		models.FieldCreatedAt: "2024-03-01 10:00:00",
	}})
	alerts := c.Alerts(neverModified)
	require.Len(t, alerts, 1)
	assert.Equal(t, "stale_link", alerts[0].Kind)
}
