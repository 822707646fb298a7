package entities

import "time"

// Rating bounds shared by every review criterion
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's multi-criterion rating of a vendor
type Review struct {
	ID                   string    `json:"id" db:"id"`
	VendorID             string    `json:"vendor_id" db:"vendor_id"`
	CustomerID           string    `json:"customer_id" db:"customer_id"`
	HygieneRating        int       `json:"hygiene_rating" db:"hygiene_rating"`
	StaffRating          int       `json:"staff_rating" db:"staff_rating"`
	PricingRating        int       `json:"pricing_rating" db:"pricing_rating"`
	OverallRating        int       `json:"overall_rating" db:"overall_rating"`
	NecessitiesAvailable bool      `json:"necessities_available" db:"necessities_available"`
	Text                 string    `json:"review_text" db:"review_text"`
	ImageRef             *string   `json:"image_ref,omitempty" db:"image_ref"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`

	// Author is filled in by the read path and never persisted
	Author *ReviewAuthor `json:"author,omitempty" db:"-"`
}

// ReviewAuthor is the public part of a reviewing customer
type ReviewAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReviewStats aggregates a set of reviews
type ReviewStats struct {
	AvgRating          float64 `json:"avg_rating"`
	AvgHygiene         float64 `json:"avg_hygiene"`
	AvgStaff           float64 `json:"avg_staff"`
	AvgPricing         float64 `json:"avg_pricing"`
	NecessitiesPercent float64 `json:"necessities_percent"`
	TotalReviews       int     `json:"total_reviews"`
}

// VendorReviews is the detail view of a vendor
type VendorReviews struct {
	Vendor  *Vendor     `json:"vendor"`
	Reviews []*Review   `json:"reviews"`
	Stats   ReviewStats `json:"stats"`
}
