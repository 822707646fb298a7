package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vendorshub/backend/internal/application/services"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

const (
	defaultSuggestLimit = 8
	maxSuggestLimit     = 20
)

// ListingHandler serves the public directory
type ListingHandler struct {
	listing *services.ListingService
	search  repositories.VendorSearchRepository
}

// NewListingHandler creates a new listing handler. search may be nil.
func NewListingHandler(listing *services.ListingService, search repositories.VendorSearchRepository) *ListingHandler {
	return &ListingHandler{
		listing: listing,
		search:  search,
	}
}

// ListVendors handles GET /api/vendors
func (h *ListingHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := services.ListingQuery{
		Search:   strings.TrimSpace(query.Get("search")),
		Category: strings.TrimSpace(query.Get("category")),
		City:     strings.TrimSpace(query.Get("city")),
	}

	listing, err := h.listing.List(r.Context(), q)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"top":          listing.Top,
		"recent":       listing.Recent,
		"categories":   entities.BusinessCategories,
		"search_query": q.Search,
	})
}

// Meta handles GET /api/meta
func (h *ListingHandler) Meta(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"states":     entities.States,
		"categories": entities.BusinessCategories,
		"roles":      []entities.Role{entities.RoleVendor, entities.RoleCustomer},
	})
}

// Suggest handles GET /api/vendors/suggest?q=
func (h *ListingHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" || h.search == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"suggestions": []repositories.VendorSuggestion{},
		})
		return
	}

	limit := defaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxSuggestLimit)
		}
	}

	suggestions, err := h.search.Suggest(r.Context(), q, limit)
	if err != nil {
		respondWithAppError(w, r, apperrors.NewExternalError("failed to query suggestions", err))
		return
	}
	if suggestions == nil {
		suggestions = []repositories.VendorSuggestion{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}
