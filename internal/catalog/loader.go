package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Paths points at the three delimited source files.
type Paths struct {
	Plans        string `mapstructure:"plans"`
	Rates        string `mapstructure:"rates"`
	ServiceAreas string `mapstructure:"service-areas"`
}

// Column names follow the CMS marketplace PUF headers the source files carry.
const (
	colPlanID          = "PlanId"
	colMarketingName   = "PlanMarketingName"
	colMetalLevel      = "MetalLevel"
	colPlanType        = "PlanType"
	colMarketCoverage  = "MarketCoverage"
	colChildOnly       = "ChildOnlyOffering"
	colServiceAreaID   = "ServiceAreaId"
	colStateCode       = "StateCode"
	colWellness        = "WellnessProgramOffered"
	colDiseaseMgmt     = "DiseaseManagementProgramsOffered"
	colPregnancyNotice = "IsNoticeRequiredForPregnancy"
	colDentalOnly      = "DentalOnlyPlan"
	colOutOfArea       = "OutOfServiceAreaCoverage"
	colSummaryURL      = "URLForSummaryofBenefitsCoverage"
	colExpirationDate  = "PlanExpirationDate"

	colAge            = "Age"
	colTobacco        = "Tobacco"
	colIndividualRate = "IndividualRate"
	colAvgRate        = "AvgIndividualRate"

	colCoverEntireState = "CoverEntireState"
)

// The CMS source data really does spell it this way.
const colEffectiveDate = "PlanEffictiveDate"

type table struct {
	header map[string]int
	rows   [][]string
}

// Load reads the three catalog files. The rate file may be either the raw
// per-age shape or the pre-aggregated per-plan/state shape; the loader
// detects which by its header.
func Load(paths Paths) (*Catalog, error) {
	plans, err := loadPlans(paths.Plans)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}

	areas, err := loadServiceAreas(paths.ServiceAreas)
	if err != nil {
		return nil, fmt.Errorf("load service areas: %w", err)
	}

	cat := &Catalog{Plans: plans, ServiceAreas: areas}
	if err := loadRatesInto(cat, paths.Rates); err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	return cat, nil
}

// LoadOrSample loads the catalog from disk, falling back to the deterministic
// synthetic catalog when any file is missing or malformed. The fallback is a
// recoverable condition: it is logged, not returned as an error.
func LoadOrSample(paths Paths, logger *zap.Logger) (*Catalog, bool) {
	cat, err := Load(paths)
	if err != nil {
		if logger != nil {
			logger.Warn("catalog files unavailable, using sample data", zap.Error(err))
		}
		return Sample(), true
	}
	return cat, false
}

func loadPlans(path string) ([]Plan, error) {
	t, err := readTable(path, []string{colPlanID, colMarketingName, colMetalLevel, colPlanType, colMarketCoverage, colServiceAreaID})
	if err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(t.rows))
	seen := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		id := t.get(row, colPlanID)
		name := t.get(row, colMarketingName)
		if id == "" || name == "" {
			continue
		}
		// The source files repeat a plan row per variant; keep the first.
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		plans = append(plans, Plan{
			ID:                id,
			MarketingName:     name,
			MetalLevel:        t.get(row, colMetalLevel),
			PlanType:          t.get(row, colPlanType),
			MarketCoverage:    t.get(row, colMarketCoverage),
			ServiceAreaID:     t.get(row, colServiceAreaID),
			StateCode:         t.get(row, colStateCode),
			ChildOnly:         Truthy(t.get(row, colChildOnly)),
			Wellness:          Truthy(t.get(row, colWellness)),
			DiseaseManagement: Truthy(t.get(row, colDiseaseMgmt)),
			PregnancyNotice:   Truthy(t.get(row, colPregnancyNotice)),
			DentalOnly:        Truthy(t.get(row, colDentalOnly)),
			OutOfServiceArea:  Truthy(t.get(row, colOutOfArea)),
			EffectiveDate:     t.get(row, colEffectiveDate),
			ExpirationDate:    t.get(row, colExpirationDate),
			SummaryURL:        t.get(row, colSummaryURL),
		})
	}

	return plans, nil
}

func loadServiceAreas(path string) ([]ServiceArea, error) {
	t, err := readTable(path, []string{colServiceAreaID, colStateCode, colCoverEntireState})
	if err != nil {
		return nil, err
	}

	areas := make([]ServiceArea, 0, len(t.rows))
	type areaKey struct{ id, state string }
	seen := make(map[areaKey]struct{}, len(t.rows))
	for _, row := range t.rows {
		id := t.get(row, colServiceAreaID)
		if id == "" {
			continue
		}
		key := areaKey{id, t.get(row, colStateCode)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		areas = append(areas, ServiceArea{
			ID:               id,
			StateCode:        t.get(row, colStateCode),
			CoverEntireState: Truthy(t.get(row, colCoverEntireState)),
		})
	}

	return areas, nil
}

func loadRatesInto(cat *Catalog, path string) error {
	t, err := readTable(path, []string{colPlanID})
	if err != nil {
		return err
	}

	if _, aggregated := t.header[colAvgRate]; aggregated {
		cat.PlanRates = parseAggregatedRates(t)
		return nil
	}

	for _, required := range []string{colAge, colIndividualRate} {
		if _, ok := t.header[required]; !ok {
			return fmt.Errorf("%s: missing required column %q", path, required)
		}
	}

	cat.Rates = parseRawRates(t)
	return nil
}

func parseRawRates(t *table) []Rate {
	rates := make([]Rate, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.get(row, colPlanID)
		if id == "" {
			continue
		}
		age, err := strconv.Atoi(t.get(row, colAge))
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(t.get(row, colIndividualRate), 64)
		if err != nil || value < 0 {
			continue
		}

		rates = append(rates, Rate{
			PlanID:         id,
			Age:            age,
			Tobacco:        Truthy(t.get(row, colTobacco)),
			StateCode:      t.get(row, colStateCode),
			IndividualRate: value,
		})
	}
	return rates
}

func parseAggregatedRates(t *table) []PlanRate {
	rates := make([]PlanRate, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.get(row, colPlanID)
		if id == "" {
			continue
		}
		value, err := strconv.ParseFloat(t.get(row, colAvgRate), 64)
		if err != nil || value < 0 {
			continue
		}

		rates = append(rates, PlanRate{
			PlanID:    id,
			StateCode: t.get(row, colStateCode),
			AvgRate:   value,
		})
	}
	return rates
}

// readTable reads a whole CSV file into memory, validating that every
// required column is present. The error names the missing column so the
// caller can report exactly what the file lacks.
func readTable(path string, required []string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}

	header := make(map[string]int, len(head))
	for i, name := range head {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	for _, name := range required {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, name)
		}
	}

	t := &table{header: header}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: reading rows: %w", path, err)
		}
		t.rows = append(t.rows, row)
	}

	return t, nil
}

func (t *table) get(row []string, column string) string {
	idx, ok := t.header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
