package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Demo tenants with partial overrides; anything a tenant omits falls
// back to the built-in defaults at resolve time.
var demoTenants = []struct {
	TenantID string
	Rules    string
}{
	{"acme", `{"global": {"round_to": 10, "fixed_charges_aed": 0}}`},
	{"gulfhaul", `{"vehicle_minimums": {"van": 250.0, "reefer_truck": 400.0}}`},
	{"demo", `{}`},
}

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	// Check if data already exists (idempotency)
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenant_rulesets").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range demoTenants {
		_, err := tx.Exec(ctx,
			"INSERT INTO tenant_rulesets (tenant_id, rules) VALUES ($1, $2)",
			t.TenantID, t.Rules)
		if err != nil {
			return fmt.Errorf("insert tenant ruleset %s: %w", t.TenantID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Int("count", len(demoTenants)).Msg("inserted demo tenant rulesets")
	return nil
}
