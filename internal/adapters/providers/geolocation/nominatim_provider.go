package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
)

const (
	defaultNominatimURL    = "https://nominatim.openstreetmap.org"
	maxCandidates          = 5
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultReverseCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second
)

// NominatimProvider implements GeolocationProvider against the OpenStreetMap
// Nominatim API. Responses are cached aggressively since addresses and
// coordinates rarely change meaning.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      providers.CacheProvider
}

// NewNominatimProvider creates a Nominatim-backed geolocation provider.
func NewNominatimProvider(baseURL, userAgent string, cache providers.CacheProvider) providers.GeolocationProvider {
	return NewNominatimProviderWithClient(baseURL, userAgent, cache, nil)
}

// NewNominatimProviderWithClient allows overriding the HTTP client (used for tests).
func NewNominatimProviderWithClient(baseURL, userAgent string, cache providers.CacheProvider, httpClient *http.Client) providers.GeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultNominatimURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		cache:      cache,
	}
}

// Geocode converts free-text input to zero or more location candidates.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) ([]*entities.SearchLocation, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	cacheKey := "geo:v1:search:" + hashKey(strings.ToLower(trimmed))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var locations []*entities.SearchLocation
			if err := json.Unmarshal(cached, &locations); err == nil {
				return locations, nil
			}
		}
	}

	params := url.Values{}
	params.Set("q", trimmed)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(maxCandidates))

	var results []nominatimResult
	if err := p.doRequest(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	locations := make([]*entities.SearchLocation, 0, len(results))
	for _, result := range results {
		coord, err := result.coordinate()
		if err != nil || !coord.Valid() {
			continue
		}
		locations = append(locations, &entities.SearchLocation{
			Coordinate: coord,
			Label:      result.DisplayName,
		})
	}

	if p.cache != nil {
		if payload, err := json.Marshal(locations); err == nil {
			_ = p.cache.Set(ctx, cacheKey, payload, defaultGeocodeCacheTTL)
		}
	}

	return locations, nil
}

// ReverseGeocode converts coordinates to a display label.
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, coord entities.Coordinate) (string, error) {
	if !coord.Valid() {
		return "", fmt.Errorf("coordinate out of range: %f, %f", coord.Latitude, coord.Longitude)
	}

	cacheKey := "geo:v1:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", coord.Latitude, coord.Longitude))
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Set("format", "jsonv2")

	var result nominatimResult
	if err := p.doRequest(ctx, "/reverse", params, &result); err != nil {
		return "", err
	}

	if result.DisplayName == "" {
		return "", fmt.Errorf("no results for coordinates")
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, cacheKey, []byte(result.DisplayName), defaultReverseCacheTTL)
	}

	return result.DisplayName, nil
}

func (p *NominatimProvider) doRequest(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build geocode request: %w", err)
	}
	// Nominatim rejects anonymous clients.
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode geocode response: %w", err)
	}

	return nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (r nominatimResult) coordinate() (entities.Coordinate, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return entities.Coordinate{}, err
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return entities.Coordinate{}, err
	}
	return entities.Coordinate{Latitude: lat, Longitude: lon}, nil
}
