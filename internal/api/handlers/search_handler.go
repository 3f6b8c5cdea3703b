package handlers

import (
	"net/http"
	"strconv"

	"github.com/lumamarket/LocalMarketDiscovery/internal/application/services"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

// SearchHandler handles proximity search HTTP requests
type SearchHandler struct {
	searchSvc   *services.SearchService
	locationSvc *services.LocationService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchSvc *services.SearchService, locationSvc *services.LocationService) *SearchHandler {
	return &SearchHandler{
		searchSvc:   searchSvc,
		locationSvc: locationSvc,
	}
}

// Search handles GET /api/search
//
// The search origin comes from lat/lon query parameters when present,
// otherwise from the platform position fix. With neither available the
// request fails and the client must resolve an address first.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	location, ok := h.resolveLocation(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest,
			"no location available; pass lat and lon or resolve an address via /api/geocode")
		return
	}

	spec, err := buildFilterSpec(q)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if expand, _ := strconv.Atoi(q.Get("expand")); expand > 0 {
		for i := 0; i < expand; i++ {
			spec = h.searchSvc.ExpandRadius(spec)
		}
	}

	results, err := h.searchSvc.Search(r.Context(), *location, spec)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"location":  location,
		"radius_km": spec.RadiusKm,
		"results":   results,
		"count":     len(results),
	})
}

func (h *SearchHandler) resolveLocation(r *http.Request) (*entities.SearchLocation, bool) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")

	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			return nil, false
		}
		label := q.Get("label")
		if label == "" {
			label = "custom location"
		}
		return &entities.SearchLocation{
			Coordinate: entities.Coordinate{Latitude: lat, Longitude: lon},
			Label:      label,
		}, true
	}

	if h.locationSvc == nil {
		return nil, false
	}
	coord, ok := h.locationSvc.CurrentLocation(r.Context())
	if !ok {
		return nil, false
	}
	return &entities.SearchLocation{Coordinate: *coord, Label: "current location"}, true
}

// wildcardFilter is the sentinel clients send for "no constraint" on the
// category and event_type parameters.
const wildcardFilter = "all"

// buildFilterSpec overlays query parameters onto the default spec. Absent
// parameters keep their default, so a bare search means "everything nearby".
func buildFilterSpec(q map[string][]string) (entities.FilterSpec, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	spec := entities.DefaultFilterSpec()
	spec.Query = get("q")

	// "all" is the UI's explicit wildcard; it means the same as omitting the
	// parameter, so the pointer stays nil and the filter stage is skipped.
	if v := get("category"); v != "" && v != wildcardFilter {
		spec.Category = &v
	}
	if v := get("event_type"); v != "" && v != wildcardFilter {
		spec.EventType = &v
	}
	if v := get("price_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return spec, errInvalidParam("price_min")
		}
		spec.PriceRange.Min = min
	}
	if v := get("price_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return spec, errInvalidParam("price_max")
		}
		spec.PriceRange.Max = max
	}
	if v := get("time_frame"); v != "" {
		spec.TimeFrame = entities.TimeFrame(v)
	}
	if v := get("radius_km"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return spec, errInvalidParam("radius_km")
		}
		spec.RadiusKm = radius
	}
	if v := get("sort_by"); v != "" {
		spec.SortBy = entities.SortOrder(v)
	}

	return spec, nil
}

type paramError string

func (e paramError) Error() string { return "invalid query parameter: " + string(e) }

func errInvalidParam(name string) error { return paramError(name) }
