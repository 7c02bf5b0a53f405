package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// ErrEmptyCache is returned when the cache file exists but holds no plans.
var ErrEmptyCache = errors.New("catalog cache is empty")

// Cache snapshots a catalog into a local SQLite file so repeat runs skip the
// CSV parse. A snapshot is written whole inside one transaction; readers
// either see the previous snapshot or the new one, never a mix.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	c := &Cache{db: db}
	if err := c.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	marketing_name TEXT NOT NULL,
	metal_level TEXT,
	plan_type TEXT,
	market_coverage TEXT,
	service_area_id TEXT,
	state_code TEXT,
	child_only INTEGER NOT NULL DEFAULT 0,
	wellness INTEGER NOT NULL DEFAULT 0,
	disease_management INTEGER NOT NULL DEFAULT 0,
	pregnancy_notice INTEGER NOT NULL DEFAULT 0,
	dental_only INTEGER NOT NULL DEFAULT 0,
	out_of_service_area INTEGER NOT NULL DEFAULT 0,
	effective_date TEXT,
	expiration_date TEXT,
	summary_url TEXT,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS service_areas (
	id TEXT NOT NULL,
	state_code TEXT,
	cover_entire_state INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS rates (
	plan_id TEXT NOT NULL,
	age INTEGER NOT NULL,
	tobacco INTEGER NOT NULL DEFAULT 0,
	state_code TEXT,
	individual_rate REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS plan_rates (
	plan_id TEXT NOT NULL,
	state_code TEXT,
	avg_rate REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rates_plan ON rates(plan_id);
`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// Save replaces the cached snapshot with the given catalog.
func (c *Cache) Save(ctx context.Context, cat *Catalog) error {
	return c.tx(ctx, func(tx *sql.Tx) error {
		for _, t := range []string{"plans", "service_areas", "rates", "plan_rates"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}

		planStmt, err := tx.PrepareContext(ctx, `INSERT INTO plans
			(id, marketing_name, metal_level, plan_type, market_coverage, service_area_id, state_code,
			 child_only, wellness, disease_management, pregnancy_notice, dental_only, out_of_service_area,
			 effective_date, expiration_date, summary_url, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer planStmt.Close()

		for i, p := range cat.Plans {
			if _, err := planStmt.ExecContext(ctx,
				p.ID, p.MarketingName, p.MetalLevel, p.PlanType, p.MarketCoverage, p.ServiceAreaID, p.StateCode,
				boolInt(p.ChildOnly), boolInt(p.Wellness), boolInt(p.DiseaseManagement), boolInt(p.PregnancyNotice),
				boolInt(p.DentalOnly), boolInt(p.OutOfServiceArea),
				p.EffectiveDate, p.ExpirationDate, p.SummaryURL, i,
			); err != nil {
				return fmt.Errorf("insert plan %s: %w", p.ID, err)
			}
		}

		areaStmt, err := tx.PrepareContext(ctx, "INSERT INTO service_areas (id, state_code, cover_entire_state) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer areaStmt.Close()

		for _, a := range cat.ServiceAreas {
			if _, err := areaStmt.ExecContext(ctx, a.ID, a.StateCode, boolInt(a.CoverEntireState)); err != nil {
				return fmt.Errorf("insert service area %s: %w", a.ID, err)
			}
		}

		rateStmt, err := tx.PrepareContext(ctx, "INSERT INTO rates (plan_id, age, tobacco, state_code, individual_rate) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer rateStmt.Close()

		for _, r := range cat.Rates {
			if _, err := rateStmt.ExecContext(ctx, r.PlanID, r.Age, boolInt(r.Tobacco), r.StateCode, r.IndividualRate); err != nil {
				return fmt.Errorf("insert rate for %s: %w", r.PlanID, err)
			}
		}

		aggStmt, err := tx.PrepareContext(ctx, "INSERT INTO plan_rates (plan_id, state_code, avg_rate) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer aggStmt.Close()

		for _, r := range cat.PlanRates {
			if _, err := aggStmt.ExecContext(ctx, r.PlanID, r.StateCode, r.AvgRate); err != nil {
				return fmt.Errorf("insert aggregated rate for %s: %w", r.PlanID, err)
			}
		}

		return nil
	})
}

// Load reads the cached snapshot back into a fresh Catalog, preserving the
// stored plan order.
func (c *Cache) Load(ctx context.Context) (*Catalog, error) {
	cat := &Catalog{}

	rows, err := c.db.QueryContext(ctx, `SELECT id, marketing_name, metal_level, plan_type, market_coverage,
		service_area_id, state_code, child_only, wellness, disease_management, pregnancy_notice, dental_only,
		out_of_service_area, effective_date, expiration_date, summary_url
		FROM plans ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Plan
		var childOnly, wellness, disease, pregnancy, dental, outOfArea int
		if err := rows.Scan(&p.ID, &p.MarketingName, &p.MetalLevel, &p.PlanType, &p.MarketCoverage,
			&p.ServiceAreaID, &p.StateCode, &childOnly, &wellness, &disease, &pregnancy, &dental,
			&outOfArea, &p.EffectiveDate, &p.ExpirationDate, &p.SummaryURL); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p.ChildOnly = childOnly != 0
		p.Wellness = wellness != 0
		p.DiseaseManagement = disease != 0
		p.PregnancyNotice = pregnancy != 0
		p.DentalOnly = dental != 0
		p.OutOfServiceArea = outOfArea != 0
		cat.Plans = append(cat.Plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cat.Plans) == 0 {
		return nil, ErrEmptyCache
	}

	areaRows, err := c.db.QueryContext(ctx, "SELECT id, state_code, cover_entire_state FROM service_areas")
	if err != nil {
		return nil, fmt.Errorf("query service areas: %w", err)
	}
	defer areaRows.Close()

	for areaRows.Next() {
		var a ServiceArea
		var entire int
		if err := areaRows.Scan(&a.ID, &a.StateCode, &entire); err != nil {
			return nil, fmt.Errorf("scan service area: %w", err)
		}
		a.CoverEntireState = entire != 0
		cat.ServiceAreas = append(cat.ServiceAreas, a)
	}
	if err := areaRows.Err(); err != nil {
		return nil, err
	}

	rateRows, err := c.db.QueryContext(ctx, "SELECT plan_id, age, tobacco, state_code, individual_rate FROM rates")
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rateRows.Close()

	for rateRows.Next() {
		var r Rate
		var tobacco int
		if err := rateRows.Scan(&r.PlanID, &r.Age, &tobacco, &r.StateCode, &r.IndividualRate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		r.Tobacco = tobacco != 0
		cat.Rates = append(cat.Rates, r)
	}
	if err := rateRows.Err(); err != nil {
		return nil, err
	}

	aggRows, err := c.db.QueryContext(ctx, "SELECT plan_id, state_code, avg_rate FROM plan_rates")
	if err != nil {
		return nil, fmt.Errorf("query aggregated rates: %w", err)
	}
	defer aggRows.Close()

	for aggRows.Next() {
		var r PlanRate
		if err := aggRows.Scan(&r.PlanID, &r.StateCode, &r.AvgRate); err != nil {
			return nil, fmt.Errorf("scan aggregated rate: %w", err)
		}
		cat.PlanRates = append(cat.PlanRates, r)
	}
	if err := aggRows.Err(); err != nil {
		return nil, err
	}

	return cat, nil
}

// tx executes fn within a transaction, committing on nil and rolling back
// otherwise.
func (c *Cache) tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
