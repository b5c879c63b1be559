package model

type GlobalRules struct {
	RoundTo         int     `json:"round_to"`
	FixedChargesAED float64 `json:"fixed_charges_aed"`
	GateInOutAED    float64 `json:"gate_in_out_aed"`
}

// RuleSet is the effective set of pricing parameters for a tenant after
// the tenant's override document has been applied onto the defaults.
type RuleSet struct {
	Global          GlobalRules        `json:"global"`
	VehicleMinimums map[string]float64 `json:"vehicle_minimums"`
}

// MinimumFor returns the configured floor for a vehicle type. Unknown
// vehicle types have no floor.
func (rs RuleSet) MinimumFor(vehicleType string) float64 {
	return rs.VehicleMinimums[vehicleType]
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		Global: GlobalRules{
			RoundTo:         5,
			FixedChargesAED: 25.0,
			GateInOutAED:    15.0,
		},
		VehicleMinimums: map[string]float64{
			"van":          200.0,
			"3t_truck":     220.0,
			"7t_truck":     250.0,
			"flatbed":      300.0,
			"reefer_truck": 320.0,
		},
	}
}

// GlobalRulesOverride mirrors GlobalRules with pointer fields so that
// an absent key can be told apart from an explicit zero.
type GlobalRulesOverride struct {
	RoundTo         *int     `json:"round_to"`
	FixedChargesAED *float64 `json:"fixed_charges_aed"`
	GateInOutAED    *float64 `json:"gate_in_out_aed"`
}

// RuleSetOverride is the shape of a tenant's persisted rules document.
// Unknown keys in the document are ignored when it is decoded.
type RuleSetOverride struct {
	Global          *GlobalRulesOverride `json:"global"`
	VehicleMinimums map[string]float64   `json:"vehicle_minimums"`
}

// ApplyTo merges the override onto base field by field: nested sections
// merge key-wise, present leaves replace the base value, absent leaves
// inherit it.
func (o RuleSetOverride) ApplyTo(base RuleSet) RuleSet {
	out := base
	out.VehicleMinimums = make(map[string]float64, len(base.VehicleMinimums))
	for k, v := range base.VehicleMinimums {
		out.VehicleMinimums[k] = v
	}

	if o.Global != nil {
		if o.Global.RoundTo != nil {
			out.Global.RoundTo = *o.Global.RoundTo
		}
		if o.Global.FixedChargesAED != nil {
			out.Global.FixedChargesAED = *o.Global.FixedChargesAED
		}
		if o.Global.GateInOutAED != nil {
			out.Global.GateInOutAED = *o.Global.GateInOutAED
		}
	}

	for k, v := range o.VehicleMinimums {
		out.VehicleMinimums[k] = v
	}

	return out
}
