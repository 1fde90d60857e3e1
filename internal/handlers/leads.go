package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leadboard/internal/analytics"
	"leadboard/internal/client"
	"leadboard/internal/models"
)

// ProxyLeads forwards a list request to NocoDB and returns the raw records.
func (h *Handler) ProxyLeads(c *gin.Context) {
	var q proxyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.upstream.FetchLeads(c.Request.Context(), client.Query{
		Limit:  q.Limit,
		Offset: q.Offset,
		Sort:   q.Sort,
		Where:  q.Where,
		Fields: q.Fields,
	})
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"limit":  q.Limit,
			"offset": q.Offset,
		}).Error("NocoDB proxy request failed")
		h.writeFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"timestamp": time.Now().Format(time.RFC3339),
		"count":     len(page.List),
		"pageInfo":  page.PageInfo,
		"data":      page.List,
	})
}

// SearchLeads returns one page of the filtered, typed lead table.
func (h *Handler) SearchLeads(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	all, _, ok := h.snapshot(c)
	if !ok {
		return
	}
	filtered := h.calculator.FilterLeads(all, q.leadFilter(h.calculator.Location()))

	// Apply pagination
	total := len(filtered)
	start := q.Offset
	end := q.Offset + q.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, models.LeadsResponse{
		Data:    filtered[start:end],
		Total:   total,
		Page:    q.Offset/q.Limit + 1,
		Limit:   q.Limit,
		HasMore: end < total,
	})
}

func (h *Handler) GetFilterOptions(c *gin.Context) {
	all, _, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.FilterOptions(all))
}
