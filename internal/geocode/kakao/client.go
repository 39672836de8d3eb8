// Package kakao is the reverse-geocoding enrichment client. Lookups are
// best effort: any failure yields a nil place, never an error.
package kakao

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ondolab/ondo/internal/geocode"
)

const (
	// DefaultBaseURL is the Kakao local API base URL.
	DefaultBaseURL = "https://dapi.kakao.com/v2/local"

	requestTimeout = 3 * time.Second
)

// ClientConfig holds configuration for the Kakao client.
type ClientConfig struct {
	// RESTKey is the Kakao REST API key.
	RESTKey string

	// BaseURL overrides the API base URL, used by tests.
	BaseURL string

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Kakao coord2address client.
type Client struct {
	rest   *resty.Client
	logger zerolog.Logger
}

// NewClient creates a new Kakao reverse-geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Authorization", "KakaoAK "+cfg.RESTKey)

	return &Client{
		rest:   rest,
		logger: cfg.Logger,
	}
}

// Resolve looks up the address for a coordinate. Returns nil on timeout,
// non-2xx, or malformed body; enrichment failures are always silent.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) *geocode.Place {
	var payload coordToAddressResponse

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("x", formatCoord(lon)).
		SetQueryParam("y", formatCoord(lat)).
		SetQueryParam("input_coord", "WGS84").
		SetResult(&payload).
		Get("/geo/coord2address.json")
	if err != nil {
		c.logger.Debug().Err(err).Msg("reverse geocoding failed")
		return nil
	}
	if !resp.IsSuccess() || len(payload.Documents) == 0 {
		c.logger.Debug().Int("status", resp.StatusCode()).Msg("reverse geocoding returned no address")
		return nil
	}

	return geocode.PlaceFromComponents(components(payload.Documents[0]))
}

// components flattens a document into the provider-agnostic component map.
// The road address is the more specific source, so its components sort
// ahead of the lot-number address in the priority rules.
func components(doc document) geocode.AddressComponents {
	m := geocode.AddressComponents{
		"road_region_1depth": doc.RoadAddress.Region1Depth,
		"road_region_2depth": doc.RoadAddress.Region2Depth,
		"road_region_3depth": doc.RoadAddress.Region3Depth,
		"region_1depth":      doc.Address.Region1Depth,
		"region_2depth":      doc.Address.Region2Depth,
		"region_3depth":      doc.Address.Region3Depth,
	}
	if doc.RoadAddress.AddressName != "" {
		m["address_name"] = doc.RoadAddress.AddressName
	} else {
		m["address_name"] = doc.Address.AddressName
	}
	return m
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Kakao API response structure.

type coordToAddressResponse struct {
	Documents []document `json:"documents"`
}

type document struct {
	RoadAddress addressPart `json:"road_address"`
	Address     addressPart `json:"address"`
}

type addressPart struct {
	AddressName  string `json:"address_name"`
	Region1Depth string `json:"region_1depth_name"`
	Region2Depth string `json:"region_2depth_name"`
	Region3Depth string `json:"region_3depth_name"`
}
