package dto

import (
	"time"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

type RateBreakdownResponse struct {
	TenantID  string              `json:"tenant_id"`
	Breakdown model.RateBreakdown `json:"breakdown"`
}

type RulesetResponse struct {
	TenantID string        `json:"tenant_id"`
	Ruleset  model.RuleSet `json:"ruleset"`
}

type RulesetUpdateResponse struct {
	TenantID  string    `json:"tenant_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
