package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"leadboard/internal/config"
	"leadboard/internal/models"
)

// ErrNotConfigured is returned when the NocoDB URL or token is missing.
var ErrNotConfigured = errors.New("nocodb is not configured")

// UpstreamError carries a non-2xx NocoDB answer.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("nocodb returned %d: %s", e.StatusCode, e.Body)
}

// Query holds the NocoDB list parameters. Zero values are left out of the
// request, except Limit and Sort which fall back to the defaults.
type Query struct {
	Limit  int
	Offset int
	Sort   string
	Where  string
	Fields string
}

const (
	DefaultLimit = 1000
	DefaultSort  = "-CreatedAt"
)

func (q Query) values() url.Values {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	v.Set("limit", strconv.Itoa(limit))
	sort := q.Sort
	if sort == "" {
		sort = DefaultSort
	}
	v.Set("sort", sort)
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Fields != "" {
		v.Set("fields", q.Fields)
	}
	return v
}

type HTTPClient struct {
	client        *http.Client
	baseURL       string
	token         string
	retryAttempts int
	retryBackoff  time.Duration
	logger        *logrus.Logger
}

func NewHTTPClient(cfg *config.Config, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		baseURL:       cfg.NocoDBURL,
		token:         cfg.NocoDBToken,
		retryAttempts: cfg.RetryAttempts,
		retryBackoff:  cfg.RetryBackoff,
		logger:        logger,
	}
}

// Configured reports whether requests can be sent at all.
func (c *HTTPClient) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// FetchLeads lists lead records from NocoDB.
func (c *HTTPClient) FetchLeads(ctx context.Context, q Query) (*models.LeadsPage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid nocodb url: %w", err)
	}
	params := u.Query()
	for key, values := range q.values() {
		params[key] = values
	}
	u.RawQuery = params.Encode()

	var page models.LeadsPage
	if err := c.retryRequest(ctx, u.String(), &page); err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	if page.List == nil {
		page.List = []models.RawRecord{}
	}

	c.logger.WithField("records", len(page.List)).Info("Fetched leads from NocoDB")
	return &page, nil
}

func (c *HTTPClient) retryRequest(ctx context.Context, target string, out interface{}) error {
	var lastErr error

	attempts := c.retryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoffTime := time.Duration(attempt*attempt) * c.retryBackoff
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"backoff": backoffTime,
				"url":     redact(target),
			}).Warn("Retrying request after backoff")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffTime):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("xc-token", c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
			continue
		}

		if resp.StatusCode >= 400 {
			return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			lastErr = fmt.Errorf("invalid response body: %w", err)
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"attempt":     attempt + 1,
			"status_code": resp.StatusCode,
			"url":         redact(target),
		}).Info("Request successful")

		return nil
	}

	return fmt.Errorf("all retry attempts failed, last error: %w", lastErr)
}

// redact drops the query string, which may carry user filters.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	u.RawQuery = ""
	return u.String()
}
