package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

// ErrAddressNotFound is returned when the provider has no match for an address
var ErrAddressNotFound = errors.New("address not found, please check the address and try again")

// ErrUnavailable wraps every failure talking to the provider
var ErrUnavailable = errors.New("address lookup is temporarily unavailable, please try again later")

// Address is a free-text US street address
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Query joins the non-empty parts with ", "
func (a Address) Query() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Zip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Result is a geocoded point and its storage-resolution cell
type Result struct {
	Point       spatial.GeoPoint
	Cell        spatial.CellIndex
	DisplayName string
}

// Geocoder turns an address into a location
type Geocoder interface {
	Geocode(ctx context.Context, addr Address) (*Result, error)
}

// NominatimClient geocodes against an OpenStreetMap Nominatim search endpoint
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimClient creates a client for the search endpoint at baseURL
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode looks up addr, restricted to the US, and indexes it at storage resolution
func (c *NominatimClient) Geocode(ctx context.Context, addr Address) (*Result, error) {
	reqURL, err := c.buildURL(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %s", ErrUnavailable, resp.Status)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	if len(results) == 0 {
		return nil, ErrAddressNotFound
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude %q", ErrUnavailable, first.Lat)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude %q", ErrUnavailable, first.Lon)
	}

	point := spatial.GeoPoint{Lat: lat, Lng: lng}
	cell, err := spatial.PointToCell(point, spatial.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to index geocoded point: %w", err)
	}

	return &Result{Point: point, Cell: cell, DisplayName: first.DisplayName}, nil
}

func (c *NominatimClient) buildURL(addr Address) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "us")
	params.Set("q", addr.Query())
	u.RawQuery = params.Encode()

	return u.String(), nil
}
