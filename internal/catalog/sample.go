package catalog

import (
	"fmt"
	"math/rand"
)

// sampleSeed keeps the synthetic catalog identical across runs; the fallback
// has to be reproducible for the determinism guarantees to hold.
const sampleSeed = 17

var (
	sampleStates = []string{"CA", "TX", "NY", "FL", "WA"}

	sampleCompanies = []string{
		"Blue Cross", "Aetna", "Cigna", "UnitedHealth", "Kaiser", "Humana",
		"Anthem", "Molina", "Ambetter", "Oscar",
	}

	sampleSuffixes = []string{
		"Select", "Premier", "Advantage", "Complete", "Essential", "Basic",
		"Standard", "Premium", "Plus", "Choice", "Value", "Secure",
	}

	sampleMetalNames = map[string][]string{
		"Bronze":   {"Bronze", "Basic", "Essential", "Value"},
		"Silver":   {"Silver", "Standard", "Select", "Advantage"},
		"Gold":     {"Gold", "Premier", "Complete", "Plus"},
		"Platinum": {"Platinum", "Premium", "Elite", "Ultimate"},
	}

	sampleMetals    = []string{"Bronze", "Silver", "Gold", "Platinum"}
	samplePlanTypes = []string{"PPO", "HMO", "EPO"}
)

// Sample builds a deterministic synthetic catalog used when the real data
// files are missing or malformed. Generated marketing names are independent
// of plan identity, so duplicates across plans can occur, same as in the
// renamed source data.
func Sample() *Catalog {
	rng := rand.New(rand.NewSource(sampleSeed))

	cat := &Catalog{}

	for i, state := range sampleStates {
		cat.ServiceAreas = append(cat.ServiceAreas,
			ServiceArea{ID: fmt.Sprintf("%sS%03d", state, i+1), StateCode: state, CoverEntireState: true},
			ServiceArea{ID: fmt.Sprintf("%sS%03dP", state, i+1), StateCode: state, CoverEntireState: false},
		)
	}

	const plansPerState = 10
	for si, state := range sampleStates {
		for p := 0; p < plansPerState; p++ {
			metal := sampleMetals[rng.Intn(len(sampleMetals))]
			planType := samplePlanTypes[rng.Intn(len(samplePlanTypes))]

			name := fmt.Sprintf("%s %s %s",
				sampleCompanies[rng.Intn(len(sampleCompanies))],
				sampleMetalNames[metal][rng.Intn(len(sampleMetalNames[metal]))],
				sampleSuffixes[rng.Intn(len(sampleSuffixes))],
			)
			if planType != "PPO" {
				name += " " + planType
			}

			coverage := "Individual"
			if rng.Intn(3) == 0 {
				coverage = "Individual and Family"
			}

			plan := Plan{
				ID:                fmt.Sprintf("%s%05d-01", state, si*plansPerState+p+1),
				MarketingName:     name,
				MetalLevel:        metal,
				PlanType:          planType,
				MarketCoverage:    coverage,
				ServiceAreaID:     fmt.Sprintf("%sS%03d", state, si+1),
				StateCode:         state,
				ChildOnly:         rng.Intn(5) == 0,
				Wellness:          rng.Intn(2) == 0,
				DiseaseManagement: rng.Intn(2) == 0,
				PregnancyNotice:   rng.Intn(3) == 0,
				DentalOnly:        rng.Intn(6) == 0,
				EffectiveDate:     "2024-01-01",
				ExpirationDate:    "2024-12-31",
			}
			cat.Plans = append(cat.Plans, plan)

			base := 150 + rng.Float64()*400
			for age := 18; age <= 64; age += 2 {
				rate := base + float64(age-18)*rng.Float64()*8
				cat.Rates = append(cat.Rates, Rate{
					PlanID:         plan.ID,
					Age:            age,
					Tobacco:        false,
					StateCode:      state,
					IndividualRate: roundCents(rate),
				})
				cat.Rates = append(cat.Rates, Rate{
					PlanID:         plan.ID,
					Age:            age,
					Tobacco:        true,
					StateCode:      state,
					IndividualRate: roundCents(rate * 1.25),
				})
			}
		}
	}

	return cat
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
