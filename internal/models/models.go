package models

import (
	"time"
)

// Data Quality Tracking Structures
type FieldQuality struct {
	IsValid       bool        `json:"is_valid"`
	Description   string      `json:"description"`
	OriginalValue interface{} `json:"original_value,omitempty"`
}

type RecordQuality struct {
	RecordID    string                  `json:"record_id"`
	IsValid     bool                    `json:"is_valid"`
	FieldErrors map[string]FieldQuality `json:"field_errors"`
	ErrorCount  int                     `json:"error_count"`
}

type QualitySummary struct {
	TotalRecords int      `json:"total_records"`
	ValidRecords int      `json:"valid_records"`
	QualityScore float64  `json:"quality_score"`
	CommonIssues []string `json:"common_issues"`
	DuplicateIDs int      `json:"duplicate_ids"`
}

// NocoDB page envelope
type PageInfo struct {
	TotalRows   int  `json:"totalRows"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	IsFirstPage bool `json:"isFirstPage"`
	IsLastPage  bool `json:"isLastPage"`
}

type LeadsPage struct {
	List     []RawRecord `json:"list"`
	PageInfo *PageInfo   `json:"pageInfo"`
}

// DateRange is an inclusive [Start, End] instant pair.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Business metrics
type FunnelStep struct {
	State                  string  `json:"state"`
	Count                  int     `json:"count"`
	PercentOfTotal         float64 `json:"percentOfTotal"`
	ConversionFromPrevious float64 `json:"conversionFromPrevious"`
	Leaked                 int     `json:"leaked"`
	LeakedLabel            string  `json:"leakedLabel"`
}

type PipelineStep struct {
	State          string  `json:"state"`
	Count          int     `json:"count"`
	PercentOfTotal float64 `json:"percentOfTotal"`
	Exited         int     `json:"exited"`
}

// Pipeline is a snapshot partition: Σ Steps[i].Count + Remainder == Total.
type Pipeline struct {
	Total     int            `json:"total"`
	Steps     []PipelineStep `json:"steps"`
	Active    int            `json:"active"`
	Remainder int            `json:"remainder"`
	Exited    int            `json:"exited"`
	Undefined int            `json:"undefined"`
}

// MetricChanges holds relative period-over-period deltas; nil means no
// comparison is available because the previous value was zero.
type MetricChanges struct {
	NewLeads       *float64 `json:"newLeads"`
	Scheduled      *float64 `json:"scheduled"`
	Purchased      *float64 `json:"purchased"`
	ConversionRate *float64 `json:"conversionRate"`
	Revenue        *float64 `json:"revenue"`
}

type MetricsSnapshot struct {
	TotalLeads        int           `json:"totalLeads"`
	NewLeads          int           `json:"newLeads"`
	InConversation    int           `json:"inConversation"`
	Scheduled         int           `json:"scheduled"`
	Purchased         int           `json:"purchased"`
	ConversionRate    float64       `json:"conversionRate"`
	Revenue           float64       `json:"revenue"`
	RequiresAttention int           `json:"requiresAttention"`
	Period            DateRange     `json:"period"`
	PreviousPeriod    DateRange     `json:"previousPeriod"`
	Changes           MetricChanges `json:"changes"`
}

type AdvancedMetrics struct {
	AvgTimeToSchedule *float64 `json:"avgTimeToSchedule"`
	NoShowRate        float64  `json:"noShowRate"`
	CloseRate         float64  `json:"closeRate"`
	AvgTicket         float64  `json:"avgTicket"`
	BestDistrict      *string  `json:"bestDistrict"`
	BestDay           *string  `json:"bestDay"`
	PeakHour          *int     `json:"peakHour"`
}

type DistributionEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Alert struct {
	Kind    string   `json:"kind"`
	Type    Severity `json:"type"`
	Icon    string   `json:"icon"`
	Message string   `json:"message"`
	Count   int      `json:"count"`
}

type InsightCategory string

const (
	CategoryWarning InsightCategory = "warning"
	CategoryAction  InsightCategory = "action"
	CategoryInsight InsightCategory = "insight"
)

type Insight struct {
	Icon     string          `json:"icon"`
	Message  string          `json:"message"`
	Type     InsightCategory `json:"type"`
	Priority int             `json:"priority"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Leads int    `json:"leads"`
}

type WeeklyRevenue struct {
	Week    string  `json:"week"`
	Revenue float64 `json:"revenue"`
}

type Trends struct {
	LeadsByDay        []DailyCount    `json:"leadsByDay"`
	AppointmentsByDay []DailyCount    `json:"appointmentsByDay"`
	RevenueByWeek     []WeeklyRevenue `json:"revenueByWeek"`
}

type Distributions struct {
	Status                  []DistributionEntry `json:"status"`
	District                []DistributionEntry `json:"district"`
	Origin                  []DistributionEntry `json:"origin"`
	DisqualificationReasons []DistributionEntry `json:"disqualificationReasons"`
}

// Dashboard bundles every derived structure for one lead snapshot.
type Dashboard struct {
	Metrics       MetricsSnapshot `json:"metrics"`
	Funnel        []FunnelStep    `json:"funnel"`
	Pipeline      Pipeline        `json:"pipeline"`
	Distributions Distributions   `json:"distributions"`
	Trends        Trends          `json:"trends"`
	Advanced      AdvancedMetrics `json:"advanced"`
	Alerts        []Alert         `json:"alerts"`
	Insights      []Insight       `json:"insights"`
}

type FilterOptions struct {
	Statuses  []string `json:"statuses"`
	Districts []string `json:"districts"`
}

// API response structures
type LeadsResponse struct {
	Data    []Lead `json:"data"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	HasMore bool   `json:"has_more"`
}

type DashboardResponse struct {
	Dashboard
	FetchedAt string         `json:"fetchedAt"`
	Stale     bool           `json:"stale"`
	Online    bool           `json:"online"`
	Warning   string         `json:"warning,omitempty"`
	Quality   QualitySummary `json:"quality"`
}
