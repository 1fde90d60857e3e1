package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leadboard/internal/export"
	"leadboard/internal/models"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (h *Handler) ExportCSV(c *gin.Context) {
	h.exportLeads(c, "csv", csvContentType, h.exporter.CSV)
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	h.exportLeads(c, "xlsx", xlsxContentType, h.exporter.XLSX)
}

// exportLeads renders the filtered lead table as an attachment signed with
// the session secret.
func (h *Handler) exportLeads(c *gin.Context, ext, contentType string, render func([]models.Lead) ([]byte, error)) {
	var q tableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	all, _, ok := h.snapshot(c)
	if !ok {
		return
	}
	filtered := h.calculator.FilterLeads(all, q.leadFilter(h.calculator.Location()))

	body, err := render(filtered)
	if err != nil {
		h.logger.WithError(err).WithField("format", ext).Error("Failed to export leads")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al exportar datos"})
		return
	}

	filename := h.exporter.Filename(h.calculator.Now(), ext)
	h.logger.WithFields(logrus.Fields{
		"format":  ext,
		"records": len(filtered),
		"bytes":   len(body),
	}).Info("Lead export generated")

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header(export.SignatureHeader, h.exporter.Sign(body))
	c.Data(http.StatusOK, contentType, body)
}
