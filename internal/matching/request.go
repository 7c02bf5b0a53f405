package matching

import (
	"fmt"
	"strings"
)

// StateAny disables the geography filter.
const StateAny = "Any"

// DefaultLimit caps how many ranked results a request returns unless the
// caller asks for something else.
const DefaultLimit = 5

// AgeBand is one of the closed age ranges a user can declare.
type AgeBand string

const (
	AgeBand18to25 AgeBand = "18-25"
	AgeBand26to35 AgeBand = "26-35"
	AgeBand36to45 AgeBand = "36-45"
	AgeBand46to60 AgeBand = "46-60"
	AgeBand61to64 AgeBand = "61-64"
)

var ageBandRanges = map[AgeBand][2]int{
	AgeBand18to25: {18, 25},
	AgeBand26to35: {26, 35},
	AgeBand36to45: {36, 45},
	AgeBand46to60: {46, 60},
	AgeBand61to64: {61, 64},
}

// Range returns the inclusive bounds of the band.
func (b AgeBand) Range() (min, max int, ok bool) {
	r, ok := ageBandRanges[b]
	return r[0], r[1], ok
}

// Contains reports whether the given age falls in the band.
func (b AgeBand) Contains(age int) bool {
	min, max, ok := b.Range()
	return ok && age >= min && age <= max
}

// ParseAgeBand accepts the band labels shown to users, including the "61+"
// spelling of the top band.
func ParseAgeBand(s string) (AgeBand, error) {
	switch strings.TrimSpace(s) {
	case "18-25":
		return AgeBand18to25, nil
	case "26-35":
		return AgeBand26to35, nil
	case "36-45":
		return AgeBand36to45, nil
	case "46-60":
		return AgeBand46to60, nil
	case "61-64", "61+":
		return AgeBand61to64, nil
	}
	return "", fmt.Errorf("unknown age band %q (expected one of 18-25, 26-35, 36-45, 46-60, 61-64)", s)
}

// Tobacco is the user's declared tobacco use.
type Tobacco string

const (
	TobaccoNo          Tobacco = "no"
	TobaccoYes         Tobacco = "yes"
	TobaccoUnspecified Tobacco = "prefer-not-to-say"
)

// UsesTobacco reports whether tobacco rates apply. An unspecified answer
// resolves to non-tobacco rows rather than mixing both rate populations.
func (t Tobacco) UsesTobacco() bool {
	return t == TobaccoYes
}

func ParseTobacco(s string) (Tobacco, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no", "":
		return TobaccoNo, nil
	case "yes":
		return TobaccoYes, nil
	case "prefer-not-to-say", "prefer not to say", "unspecified":
		return TobaccoUnspecified, nil
	}
	return "", fmt.Errorf("unknown tobacco preference %q (expected no, yes or prefer-not-to-say)", s)
}

// Coverage is the requested plan category.
type Coverage string

const (
	CoverageIndividual Coverage = "individual"
	CoverageFamily     Coverage = "family"
	CoverageChildOnly  Coverage = "child-only"
)

func ParseCoverage(s string) (Coverage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual", "":
		return CoverageIndividual, nil
	case "family":
		return CoverageFamily, nil
	case "child-only", "child only", "childonly":
		return CoverageChildOnly, nil
	}
	return "", fmt.Errorf("unknown coverage type %q (expected individual, family or child-only)", s)
}

// Preference is a binary feature the user cares about.
type Preference string

const (
	PrefWellness     Preference = "wellness"
	PrefMaternity    Preference = "maternity"
	PrefMentalHealth Preference = "mental-health"
	PrefDental       Preference = "dental"
)

// ParsePreference normalizes a preference label. Unknown labels are reported
// via ok=false; callers ignore them rather than failing the request.
func ParsePreference(s string) (Preference, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wellness":
		return PrefWellness, true
	case "maternity":
		return PrefMaternity, true
	case "mental-health", "mental health":
		return PrefMentalHealth, true
	case "dental":
		return PrefDental, true
	}
	return "", false
}

// Request is one matching request. Zero values mean: no state restriction,
// non-tobacco rates, individual coverage, default limit.
type Request struct {
	AgeBand     AgeBand
	Tobacco     Tobacco
	Coverage    Coverage
	State       string
	Preferences []Preference
	Limit       int
}

// StateFiltered reports whether the request restricts geography.
func (r *Request) StateFiltered() bool {
	return r.State != "" && r.State != StateAny
}

func (r *Request) limit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}
