package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

var reviewColumns = []interface{}{
	"id", "vendor_id", "customer_id",
	"hygiene_rating", "staff_rating", "pricing_rating", "overall_rating",
	"necessities_available", "review_text", "image_ref", "created_at",
}

// ReviewAdapter implements review persistence in Postgres
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":                    review.ID,
		"vendor_id":             review.VendorID,
		"customer_id":           review.CustomerID,
		"hygiene_rating":        review.HygieneRating,
		"staff_rating":          review.StaffRating,
		"pricing_rating":        review.PricingRating,
		"overall_rating":        review.OverallRating,
		"necessities_available": review.NecessitiesAvailable,
		"review_text":           review.Text,
		"image_ref":             nullString(review.ImageRef),
		"created_at":            review.CreatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// ListByVendor returns every review of a vendor, newest first
func (a *ReviewAdapter) ListByVendor(ctx context.Context, vendorID string) ([]*entities.Review, error) {
	defer a.client.Observe(ctx, "reviews.list_by_vendor", time.Now())

	query, args, err := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"vendor_id": vendorID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		r := &entities.Review{}
		var image sql.NullString
		err := rows.Scan(
			&r.ID, &r.VendorID, &r.CustomerID,
			&r.HygieneRating, &r.StaffRating, &r.PricingRating, &r.OverallRating,
			&r.NecessitiesAvailable, &r.Text, &image, &r.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		r.ImageRef = stringPtr(image)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}

	return reviews, nil
}
