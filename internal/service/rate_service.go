package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

// ErrInvalidRawRate is returned when the raw predicted rate is not a
// finite, non-negative number.
var ErrInvalidRawRate = errors.New("raw rate must be a finite, non-negative number")

type RateService struct {
	rules *RuleStore
}

func NewRateService(rules *RuleStore) *RateService {
	return &RateService{rules: rules}
}

// GetRateBreakdown resolves the tenant's effective ruleset and runs the
// raw rate through the postprocessing pipeline.
func (s *RateService) GetRateBreakdown(ctx context.Context, tenantID string, rawRate float64, vehicleType string) (model.RateBreakdown, error) {
	ruleSet, err := s.rules.Resolve(ctx, tenantID)
	if err != nil {
		return model.RateBreakdown{}, err
	}

	return Postprocess(rawRate, vehicleType, ruleSet)
}

// Postprocess turns a raw predicted rate into an itemized breakdown.
// The pipeline order is fixed: round to 2 decimals, apply the vehicle
// minimum floor, add fixed charges, round to the configured multiple.
func Postprocess(rawRate float64, vehicleType string, ruleSet model.RuleSet) (model.RateBreakdown, error) {
	if math.IsNaN(rawRate) || math.IsInf(rawRate, 0) || rawRate < 0 {
		return model.RateBreakdown{}, fmt.Errorf("%w: got %v", ErrInvalidRawRate, rawRate)
	}

	raw := Round2(rawRate)

	minimum := ruleSet.MinimumFor(vehicleType)
	afterMinimum := Round2(math.Max(raw, minimum))

	afterFixed := Round2(afterMinimum + ruleSet.Global.FixedChargesAED + ruleSet.Global.GateInOutAED)

	multiple := ruleSet.Global.RoundTo
	final := Round2(RoundToMultiple(afterFixed, multiple))

	return model.RateBreakdown{
		RawRate:           raw,
		AfterMinimum:      afterMinimum,
		AfterFixedCharges: afterFixed,
		FinalRate:         final,
		RoundedMultiple:   multiple,
		FixedCharges: model.FixedCharges{
			DocFee:    ruleSet.Global.FixedChargesAED,
			GateInOut: ruleSet.Global.GateInOutAED,
		},
		VehicleMinimumApplied: minimum,
	}, nil
}

// Round2 rounds to 2 decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundToMultiple rounds value to the nearest multiple. Exact halves
// round away from zero, so 12.5 with multiple 5 becomes 15.
func RoundToMultiple(value float64, multiple int) float64 {
	if multiple <= 0 {
		return value
	}
	m := float64(multiple)
	return math.Round(value/m) * m
}
