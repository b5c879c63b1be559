package model

import "time"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a geocoded endpoint of a shipment leg, keeping the free-text
// label the caller supplied alongside the resolved coordinate.
type Place struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

type FixedCharges struct {
	DocFee    float64 `json:"doc_fee"`
	GateInOut float64 `json:"gate_in_out"`
}

// RateBreakdown itemizes every step from the raw predicted rate to the
// final quote. It is assembled once per pricing request and never
// mutated afterwards.
type RateBreakdown struct {
	RawRate               float64      `json:"raw_rate"`
	AfterMinimum          float64      `json:"after_minimum"`
	AfterFixedCharges     float64      `json:"after_fixed_charges"`
	FinalRate             float64      `json:"final_rate"`
	RoundedMultiple       int          `json:"rounded_multiple"`
	FixedCharges          FixedCharges `json:"fixed_charges"`
	VehicleMinimumApplied float64      `json:"vehicle_minimum_applied"`
}

type RouteFeature struct {
	Origin         Place   `json:"origin"`
	Destination    Place   `json:"destination"`
	DistanceKm     float64 `json:"distance_km"`
	TollGates      int     `json:"toll_gates"`
	TollChargesAED float64 `json:"toll_charges_aed"`
	Provider       string  `json:"provider"`
}

// TollGate is a known toll-collection point. The list is static
// reference data, not tenant data.
type TollGate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type TenantRuleset struct {
	TenantID  string    `json:"tenant_id"`
	Rules     []byte    `json:"rules"`
	UpdatedAt time.Time `json:"updated_at"`
}
