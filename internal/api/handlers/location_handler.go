package handlers

import (
	"net/http"

	"github.com/lumamarket/LocalMarketDiscovery/internal/application/services"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

// LocationHandler exposes the session geolocation permission state
type LocationHandler struct {
	locationSvc *services.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationSvc *services.LocationService) *LocationHandler {
	return &LocationHandler{
		locationSvc: locationSvc,
	}
}

// GetPermission handles GET /api/location/permission
func (h *LocationHandler) GetPermission(w http.ResponseWriter, r *http.Request) {
	state := h.locationSvc.PermissionState(r.Context())

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"state":          state,
		"manual_entry":   true,
		"prompt_allowed": state == entities.PermissionPrompt,
	})
}

// ResetPermission handles POST /api/location/permission/reset. It forgets a
// remembered denial so the next fix attempt prompts again.
func (h *LocationHandler) ResetPermission(w http.ResponseWriter, r *http.Request) {
	if err := h.locationSvc.ClearDeniedFlag(r.Context()); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"state": h.locationSvc.PermissionState(r.Context()),
	})
}
