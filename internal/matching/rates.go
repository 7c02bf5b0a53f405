package matching

import (
	"github.com/havenly/planmatch/internal/catalog"
)

// ResolveRates computes one representative monthly rate per plan. Plans with
// no surviving rate rows are absent from the map; callers must treat absence
// as "rate unknown", never as zero cost.
//
// Both rate shapes resolve through the same contract: rows are restricted to
// the requested state first, then averaged per plan.
func ResolveRates(cat *catalog.Catalog, req *Request) map[string]float64 {
	if cat.Aggregated() {
		return resolveAggregated(cat.PlanRates, req)
	}
	return resolveRaw(cat.Rates, req)
}

func resolveRaw(rates []catalog.Rate, req *Request) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	tobacco := req.Tobacco.UsesTobacco()
	for _, row := range rates {
		if !req.AgeBand.Contains(row.Age) {
			continue
		}
		if row.Tobacco != tobacco {
			continue
		}
		if req.StateFiltered() && row.StateCode != req.State {
			continue
		}
		sums[row.PlanID] += row.IndividualRate
		counts[row.PlanID]++
	}

	return means(sums, counts)
}

// resolveAggregated handles the pre-trimmed shape where averaging by state
// was already done upstream; only the state restriction and the per-plan
// mean remain.
func resolveAggregated(rates []catalog.PlanRate, req *Request) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, row := range rates {
		if req.StateFiltered() && row.StateCode != req.State {
			continue
		}
		sums[row.PlanID] += row.AvgRate
		counts[row.PlanID]++
	}

	return means(sums, counts)
}

func means(sums map[string]float64, counts map[string]int) map[string]float64 {
	out := make(map[string]float64, len(sums))
	for id, sum := range sums {
		out[id] = sum / float64(counts[id])
	}
	return out
}
