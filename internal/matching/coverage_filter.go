package matching

import (
	"fmt"
	"strings"

	"github.com/havenly/planmatch/internal/catalog"
)

type coverageFilter struct {
	coverage Coverage
}

// NewCoverageFilter creates a filter that applies exactly one coverage-type
// predicate. Market coverage matching is case-sensitive, as stored in the
// source data.
func NewCoverageFilter(coverage Coverage) Filter {
	return &coverageFilter{coverage: coverage}
}

func (f *coverageFilter) Name() string { return "coverage_type" }

func (f *coverageFilter) IsEnabled() bool { return true }

func (f *coverageFilter) Validate() error {
	switch f.coverage {
	case CoverageIndividual, CoverageFamily, CoverageChildOnly, "":
		return nil
	}
	return fmt.Errorf("unknown coverage type %q", f.coverage)
}

func (f *coverageFilter) Apply(plans []catalog.Plan) ([]catalog.Plan, Step, error) {
	initial := len(plans)

	keep := func(p catalog.Plan) bool {
		switch f.coverage {
		case CoverageChildOnly:
			return p.ChildOnly
		case CoverageFamily:
			return strings.Contains(p.MarketCoverage, "Family")
		default:
			return strings.Contains(p.MarketCoverage, "Individual")
		}
	}

	kept := make([]catalog.Plan, 0, initial)
	for _, plan := range plans {
		if keep(plan) {
			kept = append(kept, plan)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
