// Package matching implements the plan matching and ranking engine: a filter
// pipeline that narrows the catalog by geography and coverage type, a rate
// resolver conditioned on age band and tobacco use, a preference scorer and a
// deterministic top-N ranker.
package matching

import (
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/catalog"
)

// Match runs the full pipeline for one request against an immutable catalog
// snapshot. An empty result list means no plans matched; it is a valid
// terminal state, not an error.
func Match(cat *catalog.Catalog, req *Request, logger *zap.Logger) ([]Result, error) {
	filters := []Filter{
		NewServiceAreaFilter(cat, req.State),
		NewCoverageFilter(req.Coverage),
	}

	eligible, err := Run(filters, cat.Plans, logger)
	if err != nil {
		return nil, err
	}

	rates := ResolveRates(cat, req)

	return Rank(eligible, rates, req.Preferences, req.limit()), nil
}
