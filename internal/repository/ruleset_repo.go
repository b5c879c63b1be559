package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RulesetRepository reads and writes per-tenant pricing-rule documents.
// The row's updated_at timestamp doubles as the document's modification
// marker, so callers can probe for changes without pulling the JSONB.
type RulesetRepository struct {
	pool *pgxpool.Pool
}

func NewRulesetRepository(pool *pgxpool.Pool) *RulesetRepository {
	return &RulesetRepository{pool: pool}
}

// GetMarker returns the document's modification marker. The second
// return value is false when the tenant has no document.
func (r *RulesetRepository) GetMarker(ctx context.Context, tenantID string) (time.Time, bool, error) {
	var marker time.Time
	err := r.pool.QueryRow(ctx,
		"SELECT updated_at FROM tenant_rulesets WHERE tenant_id = $1",
		tenantID,
	).Scan(&marker)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get ruleset marker for %s: %w", tenantID, err)
	}
	return marker, true, nil
}

// Get returns the raw rules document and its marker. The third return
// value is false when the tenant has no document.
func (r *RulesetRepository) Get(ctx context.Context, tenantID string) ([]byte, time.Time, bool, error) {
	var rules []byte
	var marker time.Time
	err := r.pool.QueryRow(ctx,
		"SELECT rules, updated_at FROM tenant_rulesets WHERE tenant_id = $1",
		tenantID,
	).Scan(&rules, &marker)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("get ruleset for %s: %w", tenantID, err)
	}
	return rules, marker, true, nil
}

// Upsert replaces the tenant's rules document and bumps the marker.
func (r *RulesetRepository) Upsert(ctx context.Context, tenantID string, rules []byte) (time.Time, error) {
	var marker time.Time
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tenant_rulesets (tenant_id, rules, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tenant_id) DO UPDATE
		SET rules = EXCLUDED.rules, updated_at = now()
		RETURNING updated_at`,
		tenantID, rules,
	).Scan(&marker)
	if err != nil {
		return time.Time{}, fmt.Errorf("upsert ruleset for %s: %w", tenantID, err)
	}
	return marker, nil
}
