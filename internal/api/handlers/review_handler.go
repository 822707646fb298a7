package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vendorshub/backend/internal/api/loaders"
	"github.com/vendorshub/backend/internal/application/services"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

// ReviewHandler serves a vendor's detail page and accepts reviews
type ReviewHandler struct {
	reviews *services.ReviewService
	uploads *Uploads
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService, uploads *Uploads) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		uploads: uploads,
	}
}

type reviewRequest struct {
	HygieneRating        int    `json:"hygiene_rating"`
	StaffRating          int    `json:"staff_rating"`
	PricingRating        int    `json:"pricing_rating"`
	OverallRating        int    `json:"overall_rating"`
	NecessitiesAvailable bool   `json:"necessities_available"`
	Text                 string `json:"review_text"`
	LegacyText           string `json:"text"`
}

// GetVendor handles GET /api/vendors/{id}?sort=&hygiene=&staff=&pricing=&necessities=
func (h *ReviewHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")
	if vendorID == "" {
		respondWithError(w, http.StatusBadRequest, "vendor ID is required")
		return
	}

	result, err := h.reviews.VendorReviews(r.Context(), vendorID, parseReviewQuery(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	loaders.For(r.Context()).AttachAuthors(r.Context(), result.Reviews)

	respondWithJSON(w, http.StatusOK, result)
}

// SubmitReview handles POST /api/vendors/{id}/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}

	vendorID := r.PathValue("id")
	if vendorID == "" {
		respondWithError(w, http.StatusBadRequest, "vendor ID is required")
		return
	}

	in, err := h.decode(w, r, fmt.Sprintf("review_%s_%s", identity.UserID, vendorID))
	if err != nil {
		h.uploads.respondWithError(w, r, err)
		return
	}

	review, err := h.reviews.Submit(r.Context(), identity, vendorID, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Review submitted successfully!",
		"review":  review,
	})
}

func (h *ReviewHandler) decode(w http.ResponseWriter, r *http.Request, imagePrefix string) (services.ReviewInput, error) {
	multipart, err := h.uploads.parseMultipart(w, r)
	if err != nil {
		return services.ReviewInput{}, err
	}

	if !multipart {
		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return services.ReviewInput{}, apperrors.NewValidationError("invalid request payload")
		}
		return req.input(), nil
	}

	req := reviewRequest{
		HygieneRating:        formInt(r, "hygiene_rating"),
		StaffRating:          formInt(r, "staff_rating"),
		PricingRating:        formInt(r, "pricing_rating"),
		OverallRating:        formInt(r, "overall_rating"),
		NecessitiesAvailable: formBool(r.FormValue("necessities_available")),
		Text:                 formText(r),
	}
	in := req.input()

	image, err := h.uploads.pendingImage(r, imagePrefix)
	if err != nil {
		return services.ReviewInput{}, err
	}
	if image != nil {
		in.SaveImage = image.save
	}
	return in, nil
}

func (req reviewRequest) input() services.ReviewInput {
	return services.ReviewInput{
		HygieneRating:        req.HygieneRating,
		StaffRating:          req.StaffRating,
		PricingRating:        req.PricingRating,
		OverallRating:        req.OverallRating,
		NecessitiesAvailable: req.NecessitiesAvailable,
		Text:                 firstNonEmpty(req.Text, req.LegacyText),
	}
}

// parseReviewQuery ignores malformed values, matching an absent filter
func parseReviewQuery(r *http.Request) services.ReviewQuery {
	query := r.URL.Query()
	q := services.ReviewQuery{
		HygieneMin: queryInt(query.Get("hygiene")),
		StaffMin:   queryInt(query.Get("staff")),
		PricingMin: queryInt(query.Get("pricing")),
		Sort:       services.ParseReviewSort(query.Get("sort")),
	}

	switch query.Get("necessities") {
	case "yes":
		v := true
		q.Necessities = &v
	case "no":
		v := false
		q.Necessities = &v
	}
	return q
}

func queryInt(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// formInt yields 0 for missing or malformed values, which rating validation rejects
func formInt(r *http.Request, field string) int {
	v, _ := strconv.Atoi(r.FormValue(field))
	return v
}

// formBool accepts "yes" and the checkbox/strconv true spellings; "no", an
// absent field and anything unrecognised are false
func formBool(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "yes") || strings.EqualFold(raw, "on") {
		return true
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// formText reads the review comment from review_text, falling back to text
func formText(r *http.Request) string {
	return firstNonEmpty(r.FormValue("review_text"), r.FormValue("text"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
