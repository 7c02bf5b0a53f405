package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func fixturePaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()

	plans := `PlanId,PlanMarketingName,MetalLevel,PlanType,MarketCoverage,ChildOnlyOffering,ServiceAreaId,StateCode,WellnessProgramOffered,DiseaseManagementProgramsOffered,IsNoticeRequiredForPregnancy,DentalOnlyPlan
CA001-01,Aetna Gold Premier,Gold,PPO,Individual,No,CAS001,CA,Yes,No,Yes,No
CA002-01,Cigna Bronze Value,Bronze,HMO,Individual,No,CAS001,CA,No,Yes,No,No
CA001-01,Aetna Gold Premier,Gold,PPO,Individual,No,CAS001,CA,Yes,No,Yes,No
,Nameless,Gold,PPO,Individual,No,CAS001,CA,No,No,No,No
`
	rates := `PlanId,Age,Tobacco,StateCode,IndividualRate
CA001-01,30,No,CA,400.00
CA001-01,31,No,CA,410.00
CA002-01,30,No,CA,200.00
CA002-01,not-a-number,No,CA,210.00
CA002-01,32,No,CA,
`
	areas := `ServiceAreaId,StateCode,CoverEntireState
CAS001,CA,Yes
CAS002,CA,No
CAS001,CA,Yes
`

	return Paths{
		Plans:        writeFile(t, dir, "plans.csv", plans),
		Rates:        writeFile(t, dir, "rates.csv", rates),
		ServiceAreas: writeFile(t, dir, "service_areas.csv", areas),
	}
}

func TestLoadParsesAndSkipsBadRows(t *testing.T) {
	cat, err := Load(fixturePaths(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Duplicate plan id and the row without one are dropped.
	if len(cat.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(cat.Plans))
	}
	if cat.Plans[0].ID != "CA001-01" || !cat.Plans[0].Wellness || cat.Plans[0].DiseaseManagement {
		t.Errorf("unexpected first plan: %+v", cat.Plans[0])
	}

	// Rows with an unparseable age or missing rate are dropped.
	if len(cat.Rates) != 3 {
		t.Fatalf("expected 3 rate rows, got %d", len(cat.Rates))
	}

	// Duplicate service area rows collapse.
	if len(cat.ServiceAreas) != 2 {
		t.Fatalf("expected 2 service areas, got %d", len(cat.ServiceAreas))
	}

	if cat.Aggregated() {
		t.Error("raw rate file must not be detected as aggregated")
	}
}

func TestLoadDetectsAggregatedRates(t *testing.T) {
	paths := fixturePaths(t)
	dir := t.TempDir()
	paths.Rates = writeFile(t, dir, "rates_agg.csv", `PlanId,StateCode,AvgIndividualRate
CA001-01,CA,405.00
CA002-01,CA,200.00
CA003-01,CA,bad
`)

	cat, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cat.Aggregated() {
		t.Fatal("expected aggregated rate shape")
	}
	if len(cat.PlanRates) != 2 {
		t.Fatalf("expected 2 aggregated rows, got %d", len(cat.PlanRates))
	}
	if len(cat.Rates) != 0 {
		t.Error("raw rates must be empty for the aggregated shape")
	}
}

func TestLoadReportsMissingColumn(t *testing.T) {
	paths := fixturePaths(t)
	dir := t.TempDir()
	paths.Plans = writeFile(t, dir, "plans.csv", "PlanId,MetalLevel\nCA001-01,Gold\n")

	_, err := Load(paths)
	if err == nil {
		t.Fatal("expected an error for missing column")
	}
	if !strings.Contains(err.Error(), "PlanMarketingName") {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestLoadStripsHeaderBOM(t *testing.T) {
	paths := fixturePaths(t)
	dir := t.TempDir()
	paths.Plans = writeFile(t, dir, "plans.csv",
		"\ufeffPlanId,PlanMarketingName,MetalLevel,PlanType,MarketCoverage,ServiceAreaId\n"+
			"CA001-01,Aetna Gold Premier,Gold,PPO,Individual,CAS001\n")

	cat, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Plans) != 1 || cat.Plans[0].ID != "CA001-01" {
		t.Fatalf("BOM-prefixed header must parse like a plain one, got %+v", cat.Plans)
	}
}

func TestLoadOrSampleFallsBack(t *testing.T) {
	cat, sampled := LoadOrSample(Paths{
		Plans:        "does-not-exist.csv",
		Rates:        "does-not-exist.csv",
		ServiceAreas: "does-not-exist.csv",
	}, zap.NewNop())

	if !sampled {
		t.Fatal("expected sample fallback")
	}
	if len(cat.Plans) == 0 || len(cat.Rates) == 0 || len(cat.ServiceAreas) == 0 {
		t.Fatal("sample catalog must be populated")
	}
}

func TestLoadOrSampleUsesRealFiles(t *testing.T) {
	cat, sampled := LoadOrSample(fixturePaths(t), zap.NewNop())
	if sampled {
		t.Fatal("did not expect sample fallback")
	}
	if len(cat.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(cat.Plans))
	}
}
