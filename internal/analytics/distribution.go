package analytics

import (
	"sort"
	"strings"

	"leadboard/internal/models"
)

// tally counts keys and remembers the order in which they first appeared,
// which decides ties.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// top returns the most frequent key; the earliest seen wins a tie.
func (t *tally) top() (string, bool) {
	best, bestCount := "", 0
	for _, key := range t.order {
		if t.counts[key] > bestCount {
			best, bestCount = key, t.counts[key]
		}
	}
	return best, bestCount > 0
}

func (t *tally) entries() []models.DistributionEntry {
	entries := make([]models.DistributionEntry, 0, len(t.order))
	for _, key := range t.order {
		entries = append(entries, models.DistributionEntry{Name: key, Value: t.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

var fieldAliases = map[string]string{
	"status":           models.FieldState,
	"state":            models.FieldState,
	"district":         models.FieldQualificationDistrict,
	"origin":           models.FieldOrigin,
	"plan":             models.FieldPlan,
	"disqualification": models.FieldDisqualificationReason,
}

// ResolveField maps a short field alias to its wire name. Unknown names are
// returned unchanged so any wire field can be distributed.
func ResolveField(name string) string {
	if field, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return field
	}
	return name
}

// Distribution counts leads by the value of a wire field, most frequent
// first. Leads lacking the field, and unknown CRM states, are counted under
// models.Unspecified so the entries always sum to len(leads).
func Distribution(leads []models.Lead, field string) []models.DistributionEntry {
	t := newTally()
	for _, lead := range leads {
		t.add(categoryOf(lead, field))
	}
	return t.entries()
}

func categoryOf(lead models.Lead, field string) string {
	if field == models.FieldState {
		if lead.State.Known() {
			return string(lead.State)
		}
		return models.Unspecified
	}
	if value := lead.Category(field); value != "" {
		return value
	}
	return models.Unspecified
}

// Distributions returns the breakdowns shown on the dashboard. Disqualification
// reasons only consider disqualified leads.
func Distributions(leads []models.Lead) models.Distributions {
	disqualified := make([]models.Lead, 0)
	for _, lead := range leads {
		if lead.State == models.StateDisqualified {
			disqualified = append(disqualified, lead)
		}
	}
	return models.Distributions{
		Status:                  Distribution(leads, models.FieldState),
		District:                Distribution(leads, models.FieldQualificationDistrict),
		Origin:                  Distribution(leads, models.FieldOrigin),
		DisqualificationReasons: Distribution(disqualified, models.FieldDisqualificationReason),
	}
}
