package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lumamarket/LocalMarketDiscovery/internal/application/services"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	queryservices "github.com/lumamarket/LocalMarketDiscovery/internal/query/services"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	querySvc     *queryservices.ItemQueryService
	ingestionSvc *services.ItemIngestionService
}

// NewItemHandler creates a new item handler
func NewItemHandler(querySvc *queryservices.ItemQueryService, ingestionSvc *services.ItemIngestionService) *ItemHandler {
	return &ItemHandler{
		querySvc:     querySvc,
		ingestionSvc: ingestionSvc,
	}
}

// GetItem handles GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	if itemID == "" {
		respondWithError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	item, err := h.querySvc.GetByID(r.Context(), itemID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items. The body is a DiscoverableItem; an
// absent id gets one assigned.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item entities.DiscoverableItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ingestionSvc.PublishUpsert(r.Context(), &item); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	if itemID == "" {
		respondWithError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	if err := h.ingestionSvc.PublishRemove(r.Context(), itemID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
