package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vendorshub/backend/internal/application/services"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

// VendorHandler handles the owner side of a listing
type VendorHandler struct {
	vendors *services.VendorService
	uploads *Uploads
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendors *services.VendorService, uploads *Uploads) *VendorHandler {
	return &VendorHandler{
		vendors: vendors,
		uploads: uploads,
	}
}

type vendorRequest struct {
	BusinessName string `json:"business_name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	State        string `json:"state"`
	City         string `json:"city"`
	Address      string `json:"address"`
}

// CreateVendor handles POST /api/vendor
func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}

	in, err := h.decode(w, r, identity.UserID)
	if err != nil {
		h.uploads.respondWithError(w, r, err)
		return
	}

	vendor, err := h.vendors.Create(r.Context(), identity, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Vendor profile created successfully!",
		"vendor":  vendor,
	})
}

// EditVendor handles PUT /api/vendor
func (h *VendorHandler) EditVendor(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}

	in, err := h.decode(w, r, identity.UserID)
	if err != nil {
		h.uploads.respondWithError(w, r, err)
		return
	}

	vendor, err := h.vendors.Edit(r.Context(), identity, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Vendor profile updated successfully!",
		"vendor":  vendor,
	})
}

// Dashboard handles GET /api/vendor/dashboard
func (h *VendorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}

	dashboard, err := h.vendors.Dashboard(r.Context(), identity)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

// decode reads a multipart form or a JSON body into a VendorInput
func (h *VendorHandler) decode(w http.ResponseWriter, r *http.Request, userID string) (services.VendorInput, error) {
	multipart, err := h.uploads.parseMultipart(w, r)
	if err != nil {
		return services.VendorInput{}, err
	}

	if !multipart {
		var req vendorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return services.VendorInput{}, apperrors.NewValidationError("invalid request payload")
		}
		return req.input(), nil
	}

	req := vendorRequest{
		BusinessName: r.FormValue("business_name"),
		Category:     r.FormValue("category"),
		Description:  r.FormValue("description"),
		State:        r.FormValue("state"),
		City:         r.FormValue("city"),
		Address:      r.FormValue("address"),
	}
	in := req.input()

	image, err := h.uploads.pendingImage(r, fmt.Sprintf("vendor_%s", userID))
	if err != nil {
		return services.VendorInput{}, err
	}
	if image != nil {
		in.SaveImage = image.save
	}
	return in, nil
}

func (req vendorRequest) input() services.VendorInput {
	return services.VendorInput{
		BusinessName: req.BusinessName,
		Category:     req.Category,
		Description:  req.Description,
		State:        req.State,
		City:         req.City,
		Address:      req.Address,
	}
}
