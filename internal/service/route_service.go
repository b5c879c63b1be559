package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/adxlogistics/freight-rate-engine/internal/cache"
	"github.com/adxlogistics/freight-rate-engine/internal/geo"
	"github.com/adxlogistics/freight-rate-engine/internal/mapbox"
	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

const (
	// A gate is "on route" when it lies within this distance of any
	// polyline vertex.
	tollProximityKm = 0.25

	providerTag = "mapbox:geocoding+directions"
)

// GeoProvider is the slice of the Mapbox client the route pipeline
// depends on.
type GeoProvider interface {
	Geocode(ctx context.Context, address string) (model.Coordinate, error)
	Route(ctx context.Context, origin, destination model.Coordinate) (mapbox.Route, error)
}

// RouteFeatureService derives distance and toll-gate exposure for a
// shipment leg from free-text addresses. It holds no per-request state.
type RouteFeatureService struct {
	provider     GeoProvider
	geocodeCache *cache.GeocodeCache // nil disables caching
	gates        []model.TollGate
	gateFeeAED   float64
}

func NewRouteFeatureService(provider GeoProvider, geocodeCache *cache.GeocodeCache, gates []model.TollGate, gateFeeAED float64) *RouteFeatureService {
	return &RouteFeatureService{
		provider:     provider,
		geocodeCache: geocodeCache,
		gates:        gates,
		gateFeeAED:   gateFeeAED,
	}
}

// ComputeRouteFeatures geocodes both endpoints (concurrently), fetches
// the driving route between them, and applies the toll-gate proximity
// heuristic. Any provider failure fails the whole request; there are no
// partial results.
func (s *RouteFeatureService) ComputeRouteFeatures(ctx context.Context, originText, destinationText string) (model.RouteFeature, error) {
	g, gctx := errgroup.WithContext(ctx)

	var origin, destination model.Coordinate

	g.Go(func() error {
		var err error
		origin, err = s.resolveCoordinate(gctx, originText)
		return err
	})

	g.Go(func() error {
		var err error
		destination, err = s.resolveCoordinate(gctx, destinationText)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.RouteFeature{}, err
	}

	route, err := s.provider.Route(ctx, origin, destination)
	if err != nil {
		return model.RouteFeature{}, err
	}

	gateCount := geo.CountGatesOnRoute(route.Geometry, s.gates, tollProximityKm)

	return model.RouteFeature{
		Origin:         model.Place{Lat: origin.Lat, Lon: origin.Lon, Label: originText},
		Destination:    model.Place{Lat: destination.Lat, Lon: destination.Lon, Label: destinationText},
		DistanceKm:     Round2(route.DistanceMeters / 1000.0),
		TollGates:      gateCount,
		TollChargesAED: Round2(float64(gateCount) * s.gateFeeAED),
		Provider:       providerTag,
	}, nil
}

// resolveCoordinate consults the geocode cache before the provider.
// Cache failures are logged and ignored; the provider remains the
// source of truth.
func (s *RouteFeatureService) resolveCoordinate(ctx context.Context, address string) (model.Coordinate, error) {
	if s.geocodeCache != nil {
		coord, ok, err := s.geocodeCache.Get(ctx, address)
		if err != nil {
			log.Warn().Err(err).Str("address", address).Msg("geocode cache read failed")
		} else if ok {
			return coord, nil
		}
	}

	coord, err := s.provider.Geocode(ctx, address)
	if err != nil {
		return model.Coordinate{}, err
	}

	if s.geocodeCache != nil {
		if err := s.geocodeCache.Put(ctx, address, coord); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("geocode cache write failed")
		}
	}

	return coord, nil
}
