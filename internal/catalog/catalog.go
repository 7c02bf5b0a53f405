package catalog

import (
	"sort"
	"strings"
)

// Plan is a single catalog entry. Boolean-ish source columns are parsed once
// at load time; the matching engine never re-parses strings.
type Plan struct {
	ID                string `json:"id"`
	MarketingName     string `json:"marketing_name"`
	MetalLevel        string `json:"metal_level"`
	PlanType          string `json:"plan_type"`
	MarketCoverage    string `json:"market_coverage"`
	ServiceAreaID     string `json:"service_area_id"`
	StateCode         string `json:"state_code,omitempty"`
	ChildOnly         bool   `json:"child_only"`
	Wellness          bool   `json:"wellness"`
	DiseaseManagement bool   `json:"disease_management"`
	PregnancyNotice   bool   `json:"pregnancy_notice"`
	DentalOnly        bool   `json:"dental_only"`
	OutOfServiceArea  bool   `json:"out_of_service_area,omitempty"`
	EffectiveDate     string `json:"effective_date,omitempty"`
	ExpirationDate    string `json:"expiration_date,omitempty"`
	SummaryURL        string `json:"summary_url,omitempty"`
}

// ServiceArea is a geographic eligibility boundary. A plan is eligible for a
// state only through an area that covers the entire state.
type ServiceArea struct {
	ID               string `json:"id"`
	StateCode        string `json:"state_code"`
	CoverEntireState bool   `json:"cover_entire_state"`
}

// Rate is one priced observation from the raw rate table. Many rows exist per
// plan across ages and states.
type Rate struct {
	PlanID         string  `json:"plan_id"`
	Age            int     `json:"age"`
	Tobacco        bool    `json:"tobacco"`
	StateCode      string  `json:"state_code"`
	IndividualRate float64 `json:"individual_rate"`
}

// PlanRate is the pre-aggregated rate shape: one mean rate per plan and
// state, produced by the offline trimming job.
type PlanRate struct {
	PlanID    string  `json:"plan_id"`
	StateCode string  `json:"state_code"`
	AvgRate   float64 `json:"avg_rate"`
}

// Catalog is an immutable snapshot of the three tables for one session.
// Reload means building a new Catalog and swapping the pointer, never
// mutating a live one.
type Catalog struct {
	Plans        []Plan
	ServiceAreas []ServiceArea
	Rates        []Rate
	PlanRates    []PlanRate
}

// Aggregated reports whether the catalog carries the pre-aggregated rate
// shape instead of raw per-age rows.
func (c *Catalog) Aggregated() bool {
	return len(c.PlanRates) > 0
}

// FindByName returns the first plan whose marketing name contains the given
// text, case-insensitively, in stored catalog order.
func (c *Catalog) FindByName(partial string) (*Plan, bool) {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return nil, false
	}
	for i := range c.Plans {
		if strings.Contains(strings.ToLower(c.Plans[i].MarketingName), needle) {
			return &c.Plans[i], true
		}
	}
	return nil, false
}

// States returns the sorted distinct state codes present in the service area
// table.
func (c *Catalog) States() []string {
	seen := make(map[string]struct{})
	states := make([]string, 0)
	for _, area := range c.ServiceAreas {
		if area.StateCode == "" {
			continue
		}
		if _, ok := seen[area.StateCode]; ok {
			continue
		}
		seen[area.StateCode] = struct{}{}
		states = append(states, area.StateCode)
	}
	sort.Strings(states)
	return states
}

// EntireStateAreas returns the set of service area IDs that cover the whole
// of the given state.
func (c *Catalog) EntireStateAreas(state string) map[string]struct{} {
	areas := make(map[string]struct{})
	for _, area := range c.ServiceAreas {
		if area.StateCode == state && area.CoverEntireState {
			areas[area.ID] = struct{}{}
		}
	}
	return areas
}

// Truthy reports whether a boolean-ish source string means true. Only
// "yes", "true" and "1" count, case-insensitively; anything else, including
// an empty value, is false.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
