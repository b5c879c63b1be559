package dto

type RateBreakdownRequest struct {
	TenantID    string   `json:"tenant_id" binding:"required"`
	RawRate     *float64 `json:"raw_rate" binding:"required,gte=0"`
	VehicleType string   `json:"vehicle_type" binding:"required"`
}

type RouteFeatureRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}
