package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leadboard/internal/analytics"
	"leadboard/internal/auth"
	"leadboard/internal/client"
	"leadboard/internal/config"
	"leadboard/internal/export"
	"leadboard/internal/leads"
	"leadboard/internal/models"
	"leadboard/internal/telemetry"
	"leadboard/internal/transformer"
)

// SnapshotSource provides the lead snapshot the dashboard routes compute over.
type SnapshotSource interface {
	Fetch(ctx context.Context) (leads.Snapshot, error)
	Status() leads.Status
}

type Handler struct {
	config      *config.Config
	upstream    leads.Fetcher
	source      SnapshotSource
	transformer *transformer.Transformer
	calculator  *analytics.Calculator
	sessions    *auth.Manager
	exporter    *export.Exporter
	metrics     *telemetry.Metrics
	logger      *logrus.Logger
}

func New(cfg *config.Config, upstream leads.Fetcher, source SnapshotSource, transformer *transformer.Transformer,
	calculator *analytics.Calculator, sessions *auth.Manager, exporter *export.Exporter,
	metrics *telemetry.Metrics, logger *logrus.Logger) *Handler {
	return &Handler{
		config:      cfg,
		upstream:    upstream,
		source:      source,
		transformer: transformer,
		calculator:  calculator,
		sessions:    sessions,
		exporter:    exporter,
		metrics:     metrics,
		logger:      logger,
	}
}

// Routes registers every endpoint on router.
func (h *Handler) Routes(router gin.IRouter) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/readyz", h.ReadinessCheck)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/api")

	session := api.Group("/auth")
	session.POST("/login", h.Login)
	session.POST("/logout", h.Logout)
	session.GET("/verify", h.sessions.RequireSession(), h.VerifySession)

	protected := api.Group("", h.sessions.RequireSession())
	protected.GET("/leads", h.ProxyLeads)
	protected.GET("/leads/search", h.SearchLeads)
	protected.GET("/leads/options", h.GetFilterOptions)

	protected.GET("/dashboard", h.GetDashboard)
	protected.GET("/metrics", h.GetMetrics)
	protected.GET("/funnel", h.GetFunnel)
	protected.GET("/pipeline", h.GetPipeline)
	protected.GET("/advanced", h.GetAdvanced)
	protected.GET("/alerts", h.GetAlerts)
	protected.GET("/insights", h.GetInsights)
	protected.GET("/trends", h.GetTrends)
	protected.GET("/distribution", h.GetDistribution)

	protected.GET("/export/leads.csv", h.ExportCSV)
	protected.GET("/export/leads.xlsx", h.ExportXLSX)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "leadboard",
	})
}

// ReadinessCheck is ready while NocoDB is configured and the last fetch
// did not fail.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	status := h.source.Status()
	if !h.config.NocoDBConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"online":  false,
			"message": "NocoDB is not configured",
		})
		return
	}
	if !status.Online {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not ready",
			"online":     false,
			"last_error": status.LastError,
		})
		return
	}

	body := gin.H{"status": "ready", "online": true}
	if !status.LastSuccess.IsZero() {
		body["last_success"] = status.LastSuccess.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}

// snapshot fetches and normalizes the current leads. On failure it writes
// the error response and returns false.
func (h *Handler) snapshot(c *gin.Context) ([]models.Lead, leads.Snapshot, bool) {
	snap, err := h.source.Fetch(c.Request.Context())
	if err != nil && c.Request.Context().Err() != nil {
		// the client went away; the shared fetch carries on for others
		h.logger.WithError(err).Debug("Request cancelled while waiting for leads")
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return nil, leads.Snapshot{}, false
	}
	if err != nil {
		h.metrics.ObserveFetch(telemetry.FetchError, 0)
		h.logger.WithError(err).Error("Failed to load lead snapshot")
		h.writeFetchError(c, err)
		return nil, leads.Snapshot{}, false
	}

	result := telemetry.FetchOK
	if snap.Stale {
		result = telemetry.FetchFallback
	}
	h.metrics.ObserveFetch(result, len(snap.Records))

	return h.transformer.NormalizeLeads(snap.Records), snap, true
}

func (h *Handler) writeFetchError(c *gin.Context, err error) {
	var upstream *client.UpstreamError
	switch {
	case errors.Is(err, client.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Configuración de NocoDB no encontrada",
			"details": "Verifica las variables de entorno NOCODB_API_URL y NOCODB_API_TOKEN",
		})
	case errors.Is(err, leads.ErrNoData):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "No hay datos disponibles",
			"details": err.Error(),
		})
	case errors.As(err, &upstream):
		c.JSON(upstream.StatusCode, gin.H{
			"error":   "Error al obtener datos de NocoDB",
			"status":  upstream.StatusCode,
			"details": upstream.Body,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error de conexión con NocoDB",
			"details": err.Error(),
		})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Parámetros inválidos",
		"details": err.Error(),
	})
}
