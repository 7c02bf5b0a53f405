package matching

import "testing"

func TestParseAgeBand(t *testing.T) {
	band, err := ParseAgeBand("26-35")
	if err != nil {
		t.Fatalf("ParseAgeBand: %v", err)
	}
	if min, max, ok := band.Range(); !ok || min != 26 || max != 35 {
		t.Errorf("unexpected range %d-%d", min, max)
	}

	// "61+" is the label shown to users for the top band.
	band, err = ParseAgeBand("61+")
	if err != nil {
		t.Fatalf("ParseAgeBand(61+): %v", err)
	}
	if band != AgeBand61to64 {
		t.Errorf("expected 61-64, got %s", band)
	}

	if _, err := ParseAgeBand("90-100"); err == nil {
		t.Error("expected error for unknown band")
	}
}

func TestAgeBandContains(t *testing.T) {
	if !AgeBand18to25.Contains(18) || !AgeBand18to25.Contains(25) {
		t.Error("band bounds are inclusive")
	}
	if AgeBand18to25.Contains(26) || AgeBand18to25.Contains(17) {
		t.Error("band must exclude out-of-range ages")
	}
	if AgeBand("bogus").Contains(30) {
		t.Error("invalid band contains nothing")
	}
}

func TestParseTobacco(t *testing.T) {
	for input, want := range map[string]Tobacco{
		"No":                TobaccoNo,
		"yes":               TobaccoYes,
		"Prefer not to say": TobaccoUnspecified,
		"prefer-not-to-say": TobaccoUnspecified,
		"":                  TobaccoNo,
	} {
		got, err := ParseTobacco(input)
		if err != nil {
			t.Fatalf("ParseTobacco(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseTobacco(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := ParseTobacco("sometimes"); err == nil {
		t.Error("expected error for unknown preference")
	}

	if TobaccoUnspecified.UsesTobacco() {
		t.Error("unspecified must resolve to non-tobacco rates")
	}
}

func TestParseCoverage(t *testing.T) {
	for input, want := range map[string]Coverage{
		"Individual": CoverageIndividual,
		"family":     CoverageFamily,
		"Child-only": CoverageChildOnly,
		"child only": CoverageChildOnly,
		"":           CoverageIndividual,
	} {
		got, err := ParseCoverage(input)
		if err != nil {
			t.Fatalf("ParseCoverage(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseCoverage(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := ParseCoverage("group"); err == nil {
		t.Error("expected error for unknown coverage")
	}
}

func TestParsePreference(t *testing.T) {
	if pref, ok := ParsePreference("Mental Health"); !ok || pref != PrefMentalHealth {
		t.Errorf("unexpected result: %s %v", pref, ok)
	}
	if _, ok := ParsePreference("acupuncture"); ok {
		t.Error("unknown labels must be reported, not guessed")
	}
}

func TestRequestStateFiltered(t *testing.T) {
	req := &Request{State: "CA"}
	if !req.StateFiltered() {
		t.Error("explicit state must filter")
	}
	for _, state := range []string{"", StateAny} {
		req := &Request{State: state}
		if req.StateFiltered() {
			t.Errorf("state %q must not filter", state)
		}
	}
}
