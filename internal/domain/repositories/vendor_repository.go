package repositories

import (
	"context"

	"github.com/vendorshub/backend/internal/domain/entities"
)

// VendorRepository defines the interface for vendor data operations
type VendorRepository interface {
	// Create inserts a vendor; a second vendor for the same owner yields a conflict error
	Create(ctx context.Context, vendor *entities.Vendor) error

	// GetByID retrieves a vendor by ID
	GetByID(ctx context.Context, id string) (*entities.Vendor, error)

	// GetByOwner retrieves the vendor owned by userID
	GetByOwner(ctx context.Context, userID string) (*entities.Vendor, error)

	// Update updates a vendor in place
	Update(ctx context.Context, vendor *entities.Vendor) error

	// ListSummaries returns every vendor matching filter with its review aggregates
	ListSummaries(ctx context.Context, filter VendorFilter) ([]entities.VendorSummary, error)

	// ListAll returns every vendor, used for reindexing
	ListAll(ctx context.Context) ([]*entities.Vendor, error)
}

// VendorFilter narrows the directory listing. Empty fields do not filter.
type VendorFilter struct {
	// Search matches business name, city or category by case-insensitive substring
	Search string
	// Category matches exactly
	Category string
	// City matches by case-insensitive substring
	City string
}

// VendorSearchRepository defines the interface for the vendor suggestion index (e.g. Typesense)
type VendorSearchRepository interface {
	// Index upserts a vendor document
	Index(ctx context.Context, vendor *entities.Vendor) error

	// Delete removes a vendor from the index
	Delete(ctx context.Context, id string) error

	// Suggest returns vendors whose name or city starts with query
	Suggest(ctx context.Context, query string, limit int) ([]VendorSuggestion, error)
}

// VendorSuggestion is a lightweight autocomplete hit
type VendorSuggestion struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	Category     string `json:"category"`
	City         string `json:"city"`
	State        string `json:"state"`
}
