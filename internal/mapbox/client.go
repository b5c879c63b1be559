// Package mapbox is a thin client over the Mapbox Geocoding and
// Directions APIs. Calls honor the request context, time out after a
// bounded period, and retry transient failures with exponential
// backoff.
package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

const defaultBaseURL = "https://api.mapbox.com"

var (
	// ErrAddressNotFound means geocoding returned no candidate for the
	// given text. The wrapped message carries the offending address.
	ErrAddressNotFound = errors.New("address not found")

	// ErrNoRouteFound means the directions API returned no route
	// between the two coordinates.
	ErrNoRouteFound = errors.New("no route found")
)

// Route is a driving route with its full polyline geometry.
type Route struct {
	DistanceMeters float64
	Geometry       []model.Coordinate
}

type Config struct {
	Token        string
	BaseURL      string        // defaults to the public Mapbox API
	Timeout      time.Duration // per-call HTTP timeout, default 15s
	MaxAttempts  int           // total attempts per call, default 4
	RetryBackoff time.Duration // initial backoff, doubled per retry, default 200ms
}

type Client struct {
	session     *http.Client
	token       string
	baseURL     string
	maxAttempts int
	backoff     time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("mapbox access token is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 200 * time.Millisecond
	}

	return &Client{
		session:     &http.Client{Timeout: cfg.Timeout},
		token:       cfg.Token,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.RetryBackoff,
	}, nil
}

type geocodeResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// Geocode forward-geocodes free text to its single best-match
// coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (model.Coordinate, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json",
		c.baseURL, url.PathEscape(address))

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("limit", "1")
		q.Set("language", "en")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return model.Coordinate{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return model.Coordinate{}, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	}

	center := decoded.Features[0].Center
	if len(center) != 2 {
		return model.Coordinate{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	// center is [lon, lat]
	return model.Coordinate{Lat: center[1], Lon: center[0]}, nil
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route requests a driving route with full GeoJSON geometry between
// two coordinates.
func (c *Client) Route(ctx context.Context, origin, destination model.Coordinate) (Route, error) {
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%f,%f;%f,%f",
		c.baseURL, origin.Lon, origin.Lat, destination.Lon, destination.Lat)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		q.Set("alternatives", "false")
		q.Set("language", "en")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return Route{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return Route{}, ErrNoRouteFound
	}

	best := decoded.Routes[0]
	geometry := make([]model.Coordinate, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) != 2 {
			return Route{}, errors.New("invalid geometry coordinate in directions response")
		}
		geometry = append(geometry, model.Coordinate{Lat: pair[1], Lon: pair[0]})
	}

	return Route{DistanceMeters: best.Distance, Geometry: geometry}, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("access_token", c.token)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	return req, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Body)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx)
// with exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := c.backoff

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == c.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
