package matching

import (
	"testing"

	"github.com/havenly/planmatch/internal/catalog"
)

func TestScoreCountsMatchedPreferences(t *testing.T) {
	plan := &catalog.Plan{Wellness: true, PregnancyNotice: true}

	cases := []struct {
		prefs []Preference
		want  int
	}{
		{nil, 0},
		{[]Preference{PrefWellness}, 1},
		{[]Preference{PrefWellness, PrefMaternity}, 2},
		{[]Preference{PrefWellness, PrefMaternity, PrefDental, PrefMentalHealth}, 2},
		{[]Preference{PrefDental}, 0},
	}

	for _, tc := range cases {
		if got := Score(plan, tc.prefs); got != tc.want {
			t.Errorf("Score(%v) = %d, want %d", tc.prefs, got, tc.want)
		}
	}
}

func TestScoreIgnoresUnknownLabels(t *testing.T) {
	plan := &catalog.Plan{Wellness: true}
	prefs := []Preference{PrefWellness, Preference("acupuncture")}
	if got := Score(plan, prefs); got != 1 {
		t.Errorf("unknown labels must not affect the score, got %d", got)
	}
}

func TestScoreBounds(t *testing.T) {
	plans := []catalog.Plan{
		{},
		{Wellness: true},
		{Wellness: true, DiseaseManagement: true, PregnancyNotice: true, DentalOnly: true},
	}
	allPrefs := []Preference{PrefWellness, PrefMaternity, PrefMentalHealth, PrefDental}

	for subset := 0; subset <= len(allPrefs); subset++ {
		prefs := allPrefs[:subset]
		for i := range plans {
			got := Score(&plans[i], prefs)
			if got < 0 || got > len(prefs) {
				t.Errorf("score %d out of bounds [0, %d]", got, len(prefs))
			}
		}
	}
}

func TestScoreIsStable(t *testing.T) {
	plan := &catalog.Plan{Wellness: true, DentalOnly: true}
	prefs := []Preference{PrefWellness, PrefDental}

	first := Score(plan, prefs)
	for i := 0; i < 10; i++ {
		if Score(plan, prefs) != first {
			t.Fatal("score must be deterministic")
		}
	}
}
