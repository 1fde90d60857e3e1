package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"leadboard/internal/models"
)

const (
	noShowThreshold = 0.2
	strongCloseRate = 0.5
	weakCloseRate   = 0.3
)

// insightRule inspects the snapshot and its advanced metrics and yields at
// most one insight.
type insightRule func(leads []models.Lead, adv models.AdvancedMetrics) (models.Insight, bool)

var insightRules = []insightRule{
	requiresHumanInsight,
	notPurchasedInsight,
	noShowInsight,
	linkSentInsight,
	prequalifiedInsight,
	closeRateInsight,
	bestDayInsight,
	bestDistrictInsight,
}

var amountPrinter = message.NewPrinter(language.English)

// Insights runs every rule in declared order and returns what they produced
// sorted by priority, most urgent first.
func Insights(leads []models.Lead, adv models.AdvancedMetrics) []models.Insight {
	insights := make([]models.Insight, 0, len(insightRules))
	for _, rule := range insightRules {
		if insight, ok := rule(leads, adv); ok {
			insights = append(insights, insight)
		}
	}
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority < insights[j].Priority
	})
	return insights
}

func countState(leads []models.Lead, state models.CRMState) int {
	n := 0
	for _, lead := range leads {
		if lead.State == state {
			n++
		}
	}
	return n
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f", rate*100)
}

func requiresHumanInsight(leads []models.Lead, _ models.AdvancedMetrics) (models.Insight, bool) {
	n := countState(leads, models.StateRequiresHuman)
	if n == 0 {
		return models.Insight{}, false
	}
	return models.Insight{
		Icon:     "🔴",
		Message:  fmt.Sprintf("%d lead%s atención humana ahora — cada hora sin respuesta reduce ~40%% la probabilidad de cierre.", n, plural(n, " requiere", "s requieren")),
		Type:     models.CategoryWarning,
		Priority: 1,
	}, true
}

func notPurchasedInsight(leads []models.Lead, adv models.AdvancedMetrics) (models.Insight, bool) {
	n := countState(leads, models.StateNotPurchased)
	if n == 0 {
		return models.Insight{}, false
	}
	potential := fmt.Sprintf("= %d oportunidades sin cerrar", n)
	if adv.AvgTicket > 0 {
		amount := int64(math.Round(float64(n) * adv.AvgTicket))
		potential = fmt.Sprintf("= S/%s en ingresos potenciales", amountPrinter.Sprintf("%d", amount))
	}
	return models.Insight{
		Icon:     "💰",
		Message:  fmt.Sprintf("%d leads en \"No Compró\" %s. El 20-30%% puede reactivarse con un seguimiento diferente — ¿cuándo fue el último contacto?", n, potential),
		Type:     models.CategoryAction,
		Priority: 2,
	}, true
}

func noShowInsight(_ []models.Lead, adv models.AdvancedMetrics) (models.Insight, bool) {
	if adv.NoShowRate <= noShowThreshold {
		return models.Insight{}, false
	}
	return models.Insight{
		Icon:     "⚠️",
		Message:  fmt.Sprintf("No-show en %s%% (umbral crítico: 20%%). Un recordatorio por WhatsApp 2h antes de la cita puede reducirlo a la mitad sin costo adicional.", percent(adv.NoShowRate)),
		Type:     models.CategoryWarning,
		Priority: 3,
	}, true
}

func linkSentInsight(leads []models.Lead, _ models.AdvancedMetrics) (models.Insight, bool) {
	n := countState(leads, models.StateLinkSent)
	if n == 0 {
		return models.Insight{}, false
	}
	return models.Insight{
		Icon:     "📅",
		Message:  fmt.Sprintf("%d lead%s el link sin usar — un mensaje personalizado en las próximas 24h puede recuperar el 30-40%% de ellos.", n, plural(n, " tiene", "s tienen")),
		Type:     models.CategoryAction,
		Priority: 4,
	}, true
}

func prequalifiedInsight(leads []models.Lead, _ models.AdvancedMetrics) (models.Insight, bool) {
	n := countState(leads, models.StatePrequalified)
	if n == 0 {
		return models.Insight{}, false
	}
	return models.Insight{
		Icon:     "💡",
		Message:  fmt.Sprintf("%d lead%s precalificado%s y esperan el link — están listos y el momentum se enfría con cada hora.", n, plural(n, " está", "s están"), plural(n, "", "s")),
		Type:     models.CategoryAction,
		Priority: 5,
	}, true
}

// closeRateInsight needs a positive close rate: attended leads that never
// purchased (rate 0) do not trigger it. It also stays silent inside the
// [0.30, 0.50) band.
func closeRateInsight(_ []models.Lead, adv models.AdvancedMetrics) (models.Insight, bool) {
	switch {
	case adv.CloseRate <= 0:
		return models.Insight{}, false
	case adv.CloseRate >= strongCloseRate:
		return models.Insight{
			Icon:     "🏆",
			Message:  fmt.Sprintf("Tasa de cierre en %s%% — por encima del promedio (30-40%%). El cuello de botella no está en la consulta sino en traer más leads calificados a ella.", percent(adv.CloseRate)),
			Type:     models.CategoryInsight,
			Priority: 6,
		}, true
	case adv.CloseRate < weakCloseRate:
		return models.Insight{
			Icon:     "⚡",
			Message:  fmt.Sprintf("Tasa de cierre en %s%% — por debajo del estándar (30-40%%). Los leads que asisten tienen objeciones sin resolver; revisar el script de consulta puede subir esto 10-15%%.", percent(adv.CloseRate)),
			Type:     models.CategoryWarning,
			Priority: 6,
		}, true
	}
	return models.Insight{}, false
}

func bestDayInsight(_ []models.Lead, adv models.AdvancedMetrics) (models.Insight, bool) {
	if adv.BestDay == nil {
		return models.Insight{}, false
	}
	return models.Insight{
		Icon:     "📈",
		Message:  fmt.Sprintf("Los %s recibes más leads — concentrar el presupuesto de ads ese día reduce el CPL y mejora la velocidad de primera respuesta.", strings.ToLower(*adv.BestDay)),
		Type:     models.CategoryInsight,
		Priority: 7,
	}, true
}

func bestDistrictInsight(_ []models.Lead, adv models.AdvancedMetrics) (models.Insight, bool) {
	if adv.BestDistrict == nil || *adv.BestDistrict == models.UnknownDistrict {
		return models.Insight{}, false
	}
	return models.Insight{
		Icon:     "🔥",
		Message:  fmt.Sprintf("Leads de %s convierten más que cualquier otro distrito — segmentar campañas hacia esa zona mejora el ROI publicitario.", *adv.BestDistrict),
		Type:     models.CategoryInsight,
		Priority: 8,
	}, true
}
