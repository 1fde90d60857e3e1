package analytics

import (
	"sort"
	"strings"
	"time"

	"leadboard/internal/models"
)

// LeadFilter narrows the lead table. Zero-valued fields do not filter; an
// empty Date keeps leads from every period.
type LeadFilter struct {
	Date     DateFilter
	Start    *time.Time
	End      *time.Time
	Search   string
	Status   string
	District string
}

// FilterLeads returns the leads matching every criterion in f, preserving
// input order. Search matches name and email case-insensitively and phone
// as a substring.
func (c *Calculator) FilterLeads(leads []models.Lead, f LeadFilter) []models.Lead {
	var period *models.DateRange
	if f.Date != "" {
		r := c.ResolveRange(f.Date, f.Start, f.End)
		period = &r
	}
	query := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if period != nil && (lead.CreatedAt == nil || !period.Contains(*lead.CreatedAt)) {
			continue
		}
		if query != "" && !matchesSearch(lead, query) {
			continue
		}
		if f.Status != "" && string(lead.State) != f.Status {
			continue
		}
		if f.District != "" && !inDistrict(lead, f.District) {
			continue
		}
		result = append(result, lead)
	}
	return result
}

func matchesSearch(lead models.Lead, query string) bool {
	return strings.Contains(strings.ToLower(lead.Name), query) ||
		strings.Contains(lead.Phone, query) ||
		strings.Contains(strings.ToLower(lead.Email), query)
}

func inDistrict(lead models.Lead, district string) bool {
	return lead.ResidenceDistrict == district ||
		lead.WorkDistrict == district ||
		lead.QualificationDistrict == district
}

// FilterOptions lists the distinct CRM states and the distinct residence and
// work districts present in leads, each sorted.
func FilterOptions(leads []models.Lead) models.FilterOptions {
	statuses := make(map[string]struct{})
	districts := make(map[string]struct{})
	for _, lead := range leads {
		if lead.State != "" {
			statuses[string(lead.State)] = struct{}{}
		}
		for _, d := range []string{lead.ResidenceDistrict, lead.WorkDistrict} {
			if d != "" {
				districts[d] = struct{}{}
			}
		}
	}
	return models.FilterOptions{
		Statuses:  sortedKeys(statuses),
		Districts: sortedKeys(districts),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
