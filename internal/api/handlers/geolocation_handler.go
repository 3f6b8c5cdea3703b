package handlers

import (
	"net/http"
	"strconv"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
)

// GeolocationHandler handles address resolution HTTP requests
type GeolocationHandler struct {
	geocoder providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler
func NewGeolocationHandler(geocoder providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{
		geocoder: geocoder,
	}
}

// Geocode handles GET /api/geocode. Zero candidates is a success with an
// empty list; the client offers the user a retry.
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("q")
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	locations, err := h.geocoder.Geocode(r.Context(), address)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "address resolution failed")
		return
	}
	if locations == nil {
		locations = []*entities.SearchLocation{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": locations,
		"count":      len(locations),
	})
}

// ReverseGeocode handles GET /api/reverse-geocode
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		respondWithError(w, http.StatusBadRequest, "query parameters lat and lon are required")
		return
	}

	coord := entities.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		respondWithError(w, http.StatusBadRequest, "coordinate out of range")
		return
	}

	label, err := h.geocoder.ReverseGeocode(r.Context(), coord)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "reverse geocoding failed")
		return
	}

	respondWithJSON(w, http.StatusOK, entities.SearchLocation{
		Coordinate: coord,
		Label:      label,
	})
}
