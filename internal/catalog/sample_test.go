package catalog

import (
	"reflect"
	"testing"
)

func TestSampleIsDeterministic(t *testing.T) {
	first := Sample()
	second := Sample()

	if !reflect.DeepEqual(first.Plans, second.Plans) {
		t.Error("sample plans differ between runs")
	}
	if !reflect.DeepEqual(first.Rates, second.Rates) {
		t.Error("sample rates differ between runs")
	}
	if !reflect.DeepEqual(first.ServiceAreas, second.ServiceAreas) {
		t.Error("sample service areas differ between runs")
	}
}

func TestSampleReferentialIntegrity(t *testing.T) {
	cat := Sample()

	areas := make(map[string]struct{})
	for _, a := range cat.ServiceAreas {
		areas[a.ID] = struct{}{}
	}

	plans := make(map[string]struct{})
	for _, p := range cat.Plans {
		if _, ok := areas[p.ServiceAreaID]; !ok {
			t.Errorf("plan %s references unknown service area %s", p.ID, p.ServiceAreaID)
		}
		plans[p.ID] = struct{}{}
	}

	for _, r := range cat.Rates {
		if _, ok := plans[r.PlanID]; !ok {
			t.Errorf("rate references unknown plan %s", r.PlanID)
		}
		if r.Age < 18 || r.Age > 64 {
			t.Errorf("rate age %d out of domain", r.Age)
		}
		if r.IndividualRate < 0 {
			t.Errorf("negative rate for plan %s", r.PlanID)
		}
	}
}

func TestSampleEveryStateHasFullCoverageArea(t *testing.T) {
	cat := Sample()
	for _, state := range cat.States() {
		if len(cat.EntireStateAreas(state)) == 0 {
			t.Errorf("state %s has no entire-state area", state)
		}
	}
}
