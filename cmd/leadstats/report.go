package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"leadboard/internal/analytics"
	"leadboard/internal/client"
	"leadboard/internal/config"
	"leadboard/internal/models"
	"leadboard/internal/transformer"
)

const dateLayout = "2006-01-02"

type reportOptions struct {
	file   string
	filter string
	start  string
	end    string
	format string
}

// report is what the command prints.
type report struct {
	GeneratedAt string                `json:"generatedAt"`
	Source      string                `json:"source"`
	Leads       int                   `json:"leads"`
	Quality     models.QualitySummary `json:"quality"`
	Dashboard   models.Dashboard      `json:"dashboard"`
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the dashboard report from a JSON dump or a live NocoDB fetch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "JSON dump: a record array, a NocoDB page or a proxy response")
	flags.StringVar(&opts.filter, "filter", string(analytics.DefaultFilter), "period: today, week, month or custom")
	flags.StringVar(&opts.start, "start", "", "custom period start (YYYY-MM-DD)")
	flags.StringVar(&opts.end, "end", "", "custom period end (YYYY-MM-DD)")
	flags.StringVarP(&opts.format, "format", "o", "json", "output format: json or yaml")
	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	cfg := config.Load()
	loc := cfg.Location()

	start, err := parseDay(opts.start, loc)
	if err != nil {
		return err
	}
	end, err := parseDay(opts.end, loc)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)

	var records []models.RawRecord
	source := opts.file
	if opts.file != "" {
		records, err = readRecordsFile(opts.file)
	} else {
		source = "nocodb"
		records, err = fetchRecords(cmd, cfg, logger)
	}
	if err != nil {
		return err
	}

	leads := transformer.New(loc).NormalizeLeads(records)
	calculator := analytics.NewCalculator(loc)
	dashboard, err := calculator.Dashboard(cmd.Context(), leads, analytics.DashboardQuery{
		Filter: analytics.ParseDateFilter(opts.filter),
		Start:  start,
		End:    end,
	})
	if err != nil {
		return fmt.Errorf("failed to compute report: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), opts.format, report{
		GeneratedAt: calculator.Now().Format(time.RFC3339),
		Source:      source,
		Leads:       len(leads),
		Quality:     transformer.New(loc).GenerateQualityReport(leads),
		Dashboard:   dashboard,
	})
}

func fetchRecords(cmd *cobra.Command, cfg *config.Config, logger *logrus.Logger) ([]models.RawRecord, error) {
	page, err := client.NewHTTPClient(cfg, logger).FetchLeads(cmd.Context(), client.Query{
		Limit: cfg.FetchLimit,
		Sort:  client.DefaultSort,
	})
	if err != nil {
		return nil, err
	}
	return page.List, nil
}

func readRecordsFile(path string) ([]models.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	return decodeRecords(data)
}

// decodeRecords accepts a bare record array, a NocoDB page ({"list": [...]})
// or a proxy response ({"data": [...]}).
func decodeRecords(data []byte) ([]models.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []models.RawRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("invalid record array: %w", err)
		}
		return records, nil
	}

	var envelope struct {
		List []models.RawRecord `json:"list"`
		Data []models.RawRecord `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("invalid dump: %w", err)
	}
	switch {
	case envelope.List != nil:
		return envelope.List, nil
	case envelope.Data != nil:
		return envelope.Data, nil
	}
	return nil, fmt.Errorf("dump has neither a list nor a data array")
}

func parseDay(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return &t, nil
}

// writeReport renders through JSON first so YAML keys match the API.
func writeReport(w io.Writer, format string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if strings.EqualFold(format, "json") {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
