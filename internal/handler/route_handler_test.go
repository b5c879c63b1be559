package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adxlogistics/freight-rate-engine/internal/mapbox"
	"github.com/adxlogistics/freight-rate-engine/internal/model"
	"github.com/adxlogistics/freight-rate-engine/internal/service"
)

type stubGeoProvider struct {
	coords map[string]model.Coordinate
	route  mapbox.Route
	err    error
}

func (p *stubGeoProvider) Geocode(_ context.Context, address string) (model.Coordinate, error) {
	if p.err != nil {
		return model.Coordinate{}, p.err
	}
	coord, ok := p.coords[address]
	if !ok {
		return model.Coordinate{}, fmt.Errorf("%w: %q", mapbox.ErrAddressNotFound, address)
	}
	return coord, nil
}

func (p *stubGeoProvider) Route(_ context.Context, _, _ model.Coordinate) (mapbox.Route, error) {
	if p.err != nil {
		return mapbox.Route{}, p.err
	}
	return p.route, nil
}

func setupRouteRouter(provider *stubGeoProvider, gates []model.TollGate) *gin.Engine {
	svc := service.NewRouteFeatureService(provider, nil, gates, 4.0)
	h := NewRouteHandler(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/routes/features", h.GetFeatures)
	return router
}

func TestRouteHandler_GetFeatures(t *testing.T) {
	gates := []model.TollGate{
		{Name: "Al Garhoud Bridge", Lat: 25.2285, Lon: 55.2896},
	}

	t.Run("happy: distance and toll gates resolved", func(t *testing.T) {
		provider := &stubGeoProvider{
			coords: map[string]model.Coordinate{
				"JAFZA, Dubai":      {Lat: 25.01, Lon: 55.06},
				"Deira City Centre": {Lat: 25.2522, Lon: 55.3310},
			},
			route: mapbox.Route{
				DistanceMeters: 38250,
				Geometry: []model.Coordinate{
					{Lat: 25.01, Lon: 55.06},
					{Lat: 25.2286, Lon: 55.2897},
					{Lat: 25.2522, Lon: 55.3310},
				},
			},
		}
		router := setupRouteRouter(provider, gates)

		w := postJSON(t, router, "/api/v1/routes/features", gin.H{
			"origin":      "JAFZA, Dubai",
			"destination": "Deira City Centre",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var feature model.RouteFeature
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feature))
		assert.Equal(t, 38.25, feature.DistanceKm)
		assert.Equal(t, 1, feature.TollGates)
		assert.Equal(t, 4.00, feature.TollChargesAED)
		assert.Equal(t, "JAFZA, Dubai", feature.Origin.Label)
		assert.Equal(t, "Deira City Centre", feature.Destination.Label)
		assert.Equal(t, 25.01, feature.Origin.Lat)
	})

	t.Run("missing destination is rejected", func(t *testing.T) {
		router := setupRouteRouter(&stubGeoProvider{}, gates)

		w := postJSON(t, router, "/api/v1/routes/features", gin.H{
			"origin": "JAFZA, Dubai",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown address maps to 422", func(t *testing.T) {
		provider := &stubGeoProvider{coords: map[string]model.Coordinate{}}
		router := setupRouteRouter(provider, gates)

		w := postJSON(t, router, "/api/v1/routes/features", gin.H{
			"origin":      "nowhere at all",
			"destination": "also nowhere",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "address not found")
	})

	t.Run("no drivable route maps to 422", func(t *testing.T) {
		provider := &stubGeoProvider{err: mapbox.ErrNoRouteFound}
		router := setupRouteRouter(provider, gates)

		w := postJSON(t, router, "/api/v1/routes/features", gin.H{
			"origin":      "JAFZA, Dubai",
			"destination": "Deira City Centre",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("provider outage maps to 502", func(t *testing.T) {
		provider := &stubGeoProvider{err: fmt.Errorf("connection refused")}
		router := setupRouteRouter(provider, gates)

		w := postJSON(t, router, "/api/v1/routes/features", gin.H{
			"origin":      "JAFZA, Dubai",
			"destination": "Deira City Centre",
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
