package transformer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"leadboard/internal/models"
)

type Transformer struct {
	emailRegex *regexp.Regexp
	loc        *time.Location
}

// New builds a Transformer that interprets zone-less timestamps in loc.
func New(loc *time.Location) *Transformer {
	if loc == nil {
		loc = time.Local
	}
	return &Transformer{
		emailRegex: regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
		loc:        loc,
	}
}

// NormalizeLeads parses raw NocoDB records into typed leads, one per record
// and in order. Records never fail as a whole: unusable fields are left empty
// and noted in Lead.Quality.
func (t *Transformer) NormalizeLeads(records []models.RawRecord) []models.Lead {
	normalized := make([]models.Lead, 0, len(records))

	for i, record := range records {
		if record == nil {
			record = models.RawRecord{}
		}
		quality := models.RecordQuality{
			RecordID:    fmt.Sprintf("lead_%d", i),
			IsValid:     true,
			FieldErrors: make(map[string]models.FieldQuality),
			ErrorCount:  0,
		}
		if id := t.text(record[models.FieldID]); id != "" {
			quality.RecordID = id
		}

		lead := models.Lead{
			ID:                     t.text(record[models.FieldID]),
			Name:                   t.text(record[models.FieldName]),
			Phone:                  t.text(record[models.FieldPhone]),
			Email:                  t.validateEmail(record[models.FieldEmail], models.FieldEmail, &quality),
			CreatedAt:              t.validateTimestamp(record[models.FieldCreatedAt], models.FieldCreatedAt, true, &quality),
			UpdatedAt:              t.validateTimestamp(record[models.FieldUpdatedAt], models.FieldUpdatedAt, false, &quality),
			State:                  t.validateState(record[models.FieldState], models.FieldState, &quality),
			SchedulingState:        t.text(record[models.FieldSchedulingState]),
			Qualified:              truthy(record[models.FieldQualified]),
			NeedsReview:            truthy(record[models.FieldNeedsReview]),
			AppointmentAt:          t.validateTimestamp(record[models.FieldAppointmentDate], models.FieldAppointmentDate, false, &quality),
			AppointmentTime:        t.text(record[models.FieldAppointmentTime]),
			AppointmentConfirmed:   truthy(record[models.FieldAppointmentConfirmed]),
			ResidenceDistrict:      t.text(record[models.FieldResidenceDistrict]),
			WorkDistrict:           t.text(record[models.FieldWorkDistrict]),
			QualificationDistrict:  t.text(record[models.FieldQualificationDistrict]),
			SaleAmount:             t.validateAmount(record[models.FieldSaleAmount], models.FieldSaleAmount, &quality),
			Plan:                   t.text(record[models.FieldPlan]),
			Origin:                 t.text(record[models.FieldOrigin]),
			DisqualificationReason: t.text(record[models.FieldDisqualificationReason]),
			Categories:             make(map[string]string, len(record)),
		}
		for key, value := range record {
			if v := t.text(value); v != "" {
				lead.Categories[key] = v
			}
		}

		// Final record validation
		quality.IsValid = quality.ErrorCount == 0
		lead.Quality = quality

		normalized = append(normalized, lead)
	}

	return normalized
}

// ParseTimestamp parses the timestamp shapes NocoDB emits. Zone-less values
// are read in the transformer's location.
func (t *Transformer) ParseTimestamp(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.In(t.loc), !v.IsZero()
	case nil:
		return time.Time{}, false
	}
	s := strings.TrimSpace(t.text(value))
	if s == "" {
		return time.Time{}, false
	}

	zoned := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05Z0700",
	}
	for _, layout := range zoned {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.In(t.loc), true
		}
	}

	local := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range local {
		if ts, err := time.ParseInLocation(layout, s, t.loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (t *Transformer) validateTimestamp(value interface{}, fieldName string, required bool, quality *models.RecordQuality) *time.Time {
	if t.text(value) == "" {
		if required {
			quality.FieldErrors[fieldName] = models.FieldQuality{
				IsValid:       false,
				Description:   "Missing - Timestamp field is empty",
				OriginalValue: value,
			}
			quality.ErrorCount++
		}
		return nil
	}

	ts, ok := t.ParseTimestamp(value)
	if !ok {
		quality.FieldErrors[fieldName] = models.FieldQuality{
			IsValid:       false,
			Description:   "Invalid timestamp format - Expected ISO 8601 or YYYY-MM-DD HH:MM:SS",
			OriginalValue: value,
		}
		quality.ErrorCount++
		return nil
	}
	return &ts
}

func (t *Transformer) validateState(value interface{}, fieldName string, quality *models.RecordQuality) models.CRMState {
	state := models.CRMState(t.text(value))
	if state == "" {
		return ""
	}
	if !state.Known() {
		quality.FieldErrors[fieldName] = models.FieldQuality{
			IsValid:       false,
			Description:   fmt.Sprintf("Unknown CRM state: %s", state),
			OriginalValue: value,
		}
		quality.ErrorCount++
	}
	return state
}

func (t *Transformer) validateAmount(value interface{}, fieldName string, quality *models.RecordQuality) *float64 {
	if t.text(value) == "" {
		return nil
	}

	amount, err := cast.ToFloat64E(strings.TrimSpace(t.text(value)))
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		quality.FieldErrors[fieldName] = models.FieldQuality{
			IsValid:       false,
			Description:   "Invalid - Sale amount is not numeric",
			OriginalValue: value,
		}
		quality.ErrorCount++
		return nil
	}
	return &amount
}

func (t *Transformer) validateEmail(value interface{}, fieldName string, quality *models.RecordQuality) string {
	email := t.text(value)
	if email == "" {
		return ""
	}

	if !t.emailRegex.MatchString(email) {
		quality.FieldErrors[fieldName] = models.FieldQuality{
			IsValid:       false,
			Description:   "Invalid email format",
			OriginalValue: value,
		}
		quality.ErrorCount++
	}
	return email
}

// text renders a raw value as a trimmed string; falsy values render as "".
func (t *Transformer) text(value interface{}) string {
	if falsy(value) {
		return ""
	}
	if ts, ok := value.(time.Time); ok {
		return ts.Format(time.RFC3339)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// falsy matches what the dashboard UI treats as an empty cell.
func falsy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return strings.TrimSpace(v) == ""
	case time.Time:
		return v.IsZero()
	}
	if f, err := cast.ToFloat64E(value); err == nil {
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// truthy reads checkbox-like fields, which NocoDB may emit as booleans,
// numbers, or strings such as "true", "1" and "No".
func truthy(value interface{}) bool {
	if falsy(value) {
		return false
	}
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "false", "0", "no":
			return false
		}
	}
	return true
}

// GenerateQualityReport summarizes field-level problems across leads and
// counts leads repeating an id already seen.
func (t *Transformer) GenerateQualityReport(leads []models.Lead) models.QualitySummary {
	valid, duplicates := 0, 0
	issueCount := make(map[string]int)
	seen := make(map[string]struct{})
	for _, lead := range leads {
		if lead.Quality.IsValid {
			valid++
		}
		if lead.ID != "" {
			if _, dup := seen[lead.ID]; dup {
				duplicates++
			}
			seen[lead.ID] = struct{}{}
		}
		for _, fieldError := range lead.Quality.FieldErrors {
			if !fieldError.IsValid {
				issueCount[fieldError.Description]++
			}
		}
	}

	score := 0.0
	if len(leads) > 0 {
		score = float64(valid) / float64(len(leads)) * 100
	}

	commonIssues := make([]string, 0)
	for issue, count := range issueCount {
		if count > 1 { // Only include issues that appear more than once
			commonIssues = append(commonIssues, fmt.Sprintf("%s (occurs %d times)", issue, count))
		}
	}
	sort.Strings(commonIssues)

	return models.QualitySummary{
		TotalRecords: len(leads),
		ValidRecords: valid,
		QualityScore: score,
		CommonIssues: commonIssues,
		DuplicateIDs: duplicates,
	}
}
