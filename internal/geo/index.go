package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

const (
	indexDimensions  = 2
	indexMinChildren = 2
	indexMaxChildren = 16
	vertexTolerance  = 0.0001
)

type vertexItem struct {
	coord model.Coordinate
	rect  *rtreego.Rect
}

func (v *vertexItem) Bounds() *rtreego.Rect {
	return v.rect
}

// RouteIndex is an R-tree over the vertices of a route polyline, built
// once per route to answer gate-proximity queries.
type RouteIndex struct {
	tree *rtreego.Rtree
	size int
}

func NewRouteIndex(vertices []model.Coordinate) *RouteIndex {
	tree := rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren)
	for _, v := range vertices {
		rect := rtreego.Point{v.Lat, v.Lon}.ToRect(vertexTolerance)
		tree.Insert(&vertexItem{coord: v, rect: rect})
	}
	return &RouteIndex{tree: tree, size: len(vertices)}
}

// AnyVertexWithin reports whether any polyline vertex lies within
// radiusKm of center. Candidates come from a bounding-box search and
// are confirmed with the haversine distance.
func (ix *RouteIndex) AnyVertexWithin(center model.Coordinate, radiusKm float64) bool {
	if ix.size == 0 {
		return false
	}

	// Degrees of longitude shrink with latitude; without the cosine
	// correction the box drops true positives due east/west of center.
	latDeg := (radiusKm / earthRadiusKm) * (180 / math.Pi)
	lonDeg := latDeg / math.Cos(degreesToRadians(center.Lat))
	bounds, err := rtreego.NewRect(
		rtreego.Point{center.Lat - latDeg, center.Lon - lonDeg},
		[]float64{2 * latDeg, 2 * lonDeg},
	)
	if err != nil {
		return false
	}

	for _, result := range ix.tree.SearchIntersect(bounds) {
		item, ok := result.(*vertexItem)
		if !ok {
			continue
		}
		if HaversineKm(center, item.coord) <= radiusKm {
			return true
		}
	}

	return false
}

// CountGatesOnRoute counts how many gates pass the proximity test
// against the polyline. Each gate is counted at most once: this is a
// presence test, repeated passes by the same gate are not modeled.
func CountGatesOnRoute(vertices []model.Coordinate, gates []model.TollGate, thresholdKm float64) int {
	index := NewRouteIndex(vertices)

	count := 0
	for _, gate := range gates {
		if index.AnyVertexWithin(model.Coordinate{Lat: gate.Lat, Lon: gate.Lon}, thresholdKm) {
			count++
		}
	}
	return count
}
