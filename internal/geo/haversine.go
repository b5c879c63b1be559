// Package geo contains pure geographic computation helpers and the
// toll-gate reference data.
package geo

import (
	"math"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between
// two points specified in decimal degrees.
func HaversineKm(a, b model.Coordinate) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	x := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(x), math.Sqrt(1-x))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
