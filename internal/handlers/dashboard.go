package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leadboard/internal/analytics"
	"leadboard/internal/models"
)

// GetDashboard computes every dashboard structure for the requested period.
func (h *Handler) GetDashboard(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	all, snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	startTime := time.Now()
	dashboard, err := h.calculator.Dashboard(c.Request.Context(), all, q.dashboard(h.calculator.Location()))
	if err != nil {
		h.logger.WithError(err).Warn("Dashboard computation aborted")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Solicitud cancelada", "details": err.Error()})
		return
	}

	quality := h.transformer.GenerateQualityReport(all)
	h.logger.WithFields(logrus.Fields{
		"leads":         len(all),
		"filter":        q.Filter,
		"stale":         snap.Stale,
		"duration_ms":   time.Since(startTime).Milliseconds(),
		"quality_score": quality.QualityScore,
	}).Debug("Dashboard computed")
	if len(quality.CommonIssues) > 0 {
		h.logger.WithField("common_issues", quality.CommonIssues).Warn("Data quality issues detected")
	}
	if quality.DuplicateIDs > 0 {
		h.logger.WithField("duplicate_ids", quality.DuplicateIDs).Warn("Leads share an id")
	}

	c.JSON(http.StatusOK, models.DashboardResponse{
		Dashboard: dashboard,
		FetchedAt: snap.FetchedAt.Format(time.RFC3339),
		Stale:     snap.Stale,
		Online:    h.source.Status().Online,
		Warning:   snap.Warning,
		Quality:   quality,
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	all, _, ok := h.snapshot(c)
	if !ok {
		return
	}
	dq := q.dashboard(h.calculator.Location())
	c.JSON(http.StatusOK, h.calculator.Metrics(all, dq.Filter, dq.Start, dq.End))
}

func (h *Handler) GetFunnel(c *gin.Context) {
	h.withLeads(c, func(all []models.Lead) interface{} { return analytics.Funnel(all) })
}

func (h *Handler) GetPipeline(c *gin.Context) {
	h.withLeads(c, func(all []models.Lead) interface{} { return analytics.Pipeline(all) })
}

func (h *Handler) GetAdvanced(c *gin.Context) {
	h.withLeads(c, func(all []models.Lead) interface{} { return analytics.Advanced(all) })
}

func (h *Handler) GetAlerts(c *gin.Context) {
	h.withLeads(c, func(all []models.Lead) interface{} { return h.calculator.Alerts(all) })
}

func (h *Handler) GetInsights(c *gin.Context) {
	h.withLeads(c, func(all []models.Lead) interface{} {
		return analytics.Insights(all, analytics.Advanced(all))
	})
}

func (h *Handler) GetTrends(c *gin.Context) {
	var q trendsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	h.withLeads(c, func(all []models.Lead) interface{} {
		return models.Trends{
			LeadsByDay:        h.calculator.LeadsByDay(all, q.Days),
			AppointmentsByDay: h.calculator.AppointmentsByDay(all, q.Days),
			RevenueByWeek:     h.calculator.RevenueByWeek(all, q.Weeks),
		}
	})
}

// GetDistribution counts leads by any wire field or one of its aliases.
func (h *Handler) GetDistribution(c *gin.Context) {
	var q distributionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	field := analytics.ResolveField(q.Field)
	h.withLeads(c, func(all []models.Lead) interface{} {
		return gin.H{
			"field": field,
			"data":  analytics.Distribution(all, field),
		}
	})
}

func (h *Handler) withLeads(c *gin.Context, compute func([]models.Lead) interface{}) {
	all, _, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, compute(all))
}
