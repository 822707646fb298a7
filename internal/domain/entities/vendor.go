package entities

import (
	"time"
)

// States lists the Indian states and union territories a vendor may be located in
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Delhi", "Jammu and Kashmir", "Ladakh", "Puducherry",
}

// BusinessCategories lists the categories a vendor may choose from
var BusinessCategories = []string{
	"Restaurant", "Cafe", "Grocery Store", "Salon", "Pharmacy",
	"Electronics Shop", "Clothing Store", "Hardware Store", "Bakery",
	"Medical Clinic", "Gym", "Book Store", "Other",
}

var (
	stateSet    = toSet(States)
	categorySet = toSet(BusinessCategories)
)

// IsValidState reports whether s is an exact member of States
func IsValidState(s string) bool {
	_, ok := stateSet[s]
	return ok
}

// IsValidCategory reports whether c is an exact member of BusinessCategories
func IsValidCategory(c string) bool {
	_, ok := categorySet[c]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Vendor is a business listing owned by exactly one vendor user
type Vendor struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	BusinessName string    `json:"business_name" db:"business_name"`
	Category     string    `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	State        string    `json:"state" db:"state"`
	City         string    `json:"city" db:"city"`
	Address      string    `json:"address" db:"address"`
	ImageRef     *string   `json:"image_ref,omitempty" db:"image_ref"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// VendorSummary annotates a vendor with its review aggregates
type VendorSummary struct {
	Vendor
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

// Listing is the home page view of the directory
type Listing struct {
	Top    []VendorSummary `json:"top"`
	Recent []VendorSummary `json:"recent"`
}
