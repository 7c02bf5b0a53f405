package matching

import (
	"github.com/havenly/planmatch/internal/catalog"
)

// Score counts how many of the requested preferences the plan satisfies.
// Pure: same plan and preferences always yield the same score, bounded by
// 0..len(prefs). Unknown preference labels contribute nothing.
func Score(plan *catalog.Plan, prefs []Preference) int {
	score := 0
	for _, pref := range prefs {
		switch pref {
		case PrefWellness:
			if plan.Wellness {
				score++
			}
		case PrefMaternity:
			if plan.PregnancyNotice {
				score++
			}
		case PrefMentalHealth:
			if plan.DiseaseManagement {
				score++
			}
		case PrefDental:
			if plan.DentalOnly {
				score++
			}
		}
	}
	return score
}
