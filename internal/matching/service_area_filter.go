package matching

import (
	"github.com/havenly/planmatch/internal/catalog"
)

type serviceAreaFilter struct {
	state string
	areas map[string]struct{}
}

// NewServiceAreaFilter creates a filter that keeps plans whose service area
// covers the entire requested state. For StateAny (or no state) the filter is
// disabled and all plans pass.
func NewServiceAreaFilter(cat *catalog.Catalog, state string) Filter {
	f := &serviceAreaFilter{state: state}
	if f.IsEnabled() {
		f.areas = cat.EntireStateAreas(state)
	}
	return f
}

func (f *serviceAreaFilter) Name() string { return "service_area" }

func (f *serviceAreaFilter) IsEnabled() bool {
	return f.state != "" && f.state != StateAny
}

func (f *serviceAreaFilter) Validate() error { return nil }

func (f *serviceAreaFilter) Apply(plans []catalog.Plan) ([]catalog.Plan, Step, error) {
	initial := len(plans)

	kept := make([]catalog.Plan, 0, initial)
	for _, plan := range plans {
		if _, ok := f.areas[plan.ServiceAreaID]; ok {
			kept = append(kept, plan)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
