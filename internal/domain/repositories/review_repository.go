package repositories

import (
	"context"

	"github.com/vendorshub/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create persists a new review
	Create(ctx context.Context, review *entities.Review) error

	// ListByVendor returns every review of a vendor, newest first
	ListByVendor(ctx context.Context, vendorID string) ([]*entities.Review, error)
}
