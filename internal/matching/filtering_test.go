package matching

import (
	"testing"

	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Plans: []catalog.Plan{
			{ID: "1", MarketingName: "A", MetalLevel: "Gold", MarketCoverage: "Individual", Wellness: true, ServiceAreaID: "10"},
			{ID: "2", MarketingName: "B", MetalLevel: "Bronze", MarketCoverage: "Individual", ServiceAreaID: "10"},
			{ID: "3", MarketingName: "C", MetalLevel: "Silver", MarketCoverage: "Individual and Family", ServiceAreaID: "20"},
			{ID: "4", MarketingName: "D", MetalLevel: "Gold", MarketCoverage: "Individual", ChildOnly: true, ServiceAreaID: "30"},
		},
		ServiceAreas: []catalog.ServiceArea{
			{ID: "10", StateCode: "CA", CoverEntireState: true},
			{ID: "20", StateCode: "CA", CoverEntireState: false},
			{ID: "30", StateCode: "TX", CoverEntireState: true},
		},
		Rates: []catalog.Rate{
			{PlanID: "1", Age: 30, Tobacco: false, StateCode: "CA", IndividualRate: 400},
			{PlanID: "2", Age: 30, Tobacco: false, StateCode: "CA", IndividualRate: 200},
		},
	}
}

func TestServiceAreaFilterKeepsEntireStateOnly(t *testing.T) {
	cat := testCatalog()
	f := NewServiceAreaFilter(cat, "CA")

	kept, step, err := f.Apply(cat.Plans)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Plan 3 sits in a partial-coverage area and must drop; plan 4 is TX.
	if len(kept) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(kept))
	}
	if kept[0].ID != "1" || kept[1].ID != "2" {
		t.Errorf("unexpected plans kept: %s, %s", kept[0].ID, kept[1].ID)
	}
	if step.Initial != 4 || step.Dropped != 2 || step.Left != 2 {
		t.Errorf("unexpected step stats: %+v", step)
	}
}

func TestServiceAreaFilterDisabledForAny(t *testing.T) {
	cat := testCatalog()
	for _, state := range []string{StateAny, ""} {
		f := NewServiceAreaFilter(cat, state)
		if f.IsEnabled() {
			t.Errorf("filter must be disabled for state %q", state)
		}
	}
}

func TestCoverageFilter(t *testing.T) {
	cat := testCatalog()

	cases := []struct {
		coverage Coverage
		wantIDs  []string
	}{
		{CoverageIndividual, []string{"1", "2", "3", "4"}},
		{CoverageFamily, []string{"3"}},
		{CoverageChildOnly, []string{"4"}},
	}

	for _, tc := range cases {
		kept, _, err := NewCoverageFilter(tc.coverage).Apply(cat.Plans)
		if err != nil {
			t.Fatalf("%s: %v", tc.coverage, err)
		}
		if len(kept) != len(tc.wantIDs) {
			t.Fatalf("%s: expected %d plans, got %d", tc.coverage, len(tc.wantIDs), len(kept))
		}
		for i, id := range tc.wantIDs {
			if kept[i].ID != id {
				t.Errorf("%s: position %d: expected plan %s, got %s", tc.coverage, i, id, kept[i].ID)
			}
		}
	}
}

func TestRunEmptyResultIsValid(t *testing.T) {
	cat := testCatalog()
	filters := []Filter{
		NewServiceAreaFilter(cat, "WY"),
		NewCoverageFilter(CoverageIndividual),
	}

	kept, err := Run(filters, cat.Plans, zap.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(kept) != 0 {
		t.Errorf("expected zero plans, got %d", len(kept))
	}
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	filters := []Filter{NewCoverageFilter(Coverage("group"))}
	if _, err := Run(filters, testCatalog().Plans, zap.NewNop()); err == nil {
		t.Fatal("expected validation error")
	}
}
