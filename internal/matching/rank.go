package matching

import (
	"sort"

	"github.com/havenly/planmatch/internal/catalog"
)

// Result is one ranked plan. RateKnown distinguishes a resolved rate from an
// unknown one; Rate is meaningless when RateKnown is false.
type Result struct {
	Plan      catalog.Plan
	Rate      float64
	RateKnown bool
	Score     int
}

// Rank joins filtered plans with resolved rates and preference scores, sorts
// them, deduplicates by marketing name and truncates to limit.
//
// Order: score descending, then, within a score, plans with a known rate
// ascending by rate followed by plans with an unknown rate in input order.
// An unknown rate never sorts into the priced plans of the same score, so
// unknown-cost plans cannot crowd out priced ones.
func Rank(plans []catalog.Plan, rates map[string]float64, prefs []Preference, limit int) []Result {
	results := make([]Result, 0, len(plans))
	for _, plan := range plans {
		r := Result{Plan: plan, Score: Score(&plan, prefs)}
		if rate, ok := rates[plan.ID]; ok {
			r.Rate = rate
			r.RateKnown = true
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RateKnown != b.RateKnown {
			return a.RateKnown
		}
		if a.RateKnown {
			return a.Rate < b.Rate
		}
		// Unknown vs unknown: stable sort keeps input order.
		return false
	})

	// Generated marketing names are not unique per plan id; collapsing by
	// name keeps the highest-ranked occurrence. Accepted limitation: two
	// distinct plans sharing a name display as one.
	seen := make(map[string]struct{}, len(results))
	deduped := results[:0]
	for _, r := range results {
		if _, dup := seen[r.Plan.MarketingName]; dup {
			continue
		}
		seen[r.Plan.MarketingName] = struct{}{}
		deduped = append(deduped, r)
	}

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}
