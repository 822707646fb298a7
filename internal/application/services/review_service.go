package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/observability"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

// ReviewInput is a customer's submission for one vendor
type ReviewInput struct {
	HygieneRating        int
	StaffRating          int
	PricingRating        int
	OverallRating        int
	NecessitiesAvailable bool
	Text                 string
	ImageRef             *string
	SaveImage            ImageSaver
}

// ReviewService reads and writes vendor reviews
type ReviewService struct {
	vendors  repositories.VendorRepository
	reviews  repositories.ReviewRepository
	eventBus providers.EventBus
	now      func() time.Time
}

// NewReviewService creates a new review service. eventBus may be nil.
func NewReviewService(vendors repositories.VendorRepository, reviews repositories.ReviewRepository, eventBus providers.EventBus) *ReviewService {
	return &ReviewService{
		vendors:  vendors,
		reviews:  reviews,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// VendorReviews returns the vendor, its filtered and sorted reviews, and stats
// computed over the filtered set
func (s *ReviewService) VendorReviews(ctx context.Context, vendorID string, q ReviewQuery) (*entities.VendorReviews, error) {
	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	all, err := s.reviews.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	filtered := FilterReviews(all, q)
	SortReviews(filtered, q.Sort)

	return &entities.VendorReviews{
		Vendor:  vendor,
		Reviews: filtered,
		Stats:   ComputeStats(filtered),
	}, nil
}

// Submit records a review by a customer
func (s *ReviewService) Submit(ctx context.Context, identity entities.Identity, vendorID string, in ReviewInput) (*entities.Review, error) {
	if !identity.IsCustomer() {
		return nil, apperrors.NewForbiddenError("only customers can submit reviews")
	}

	if _, err := s.vendors.GetByID(ctx, vendorID); err != nil {
		return nil, err
	}

	if err := validateRatings(in); err != nil {
		return nil, err
	}

	imageRef, err := storeImage(ctx, in.ImageRef, in.SaveImage)
	if err != nil {
		return nil, err
	}

	review := &entities.Review{
		ID:                   uuid.NewString(),
		VendorID:             vendorID,
		CustomerID:           identity.UserID,
		HygieneRating:        in.HygieneRating,
		StaffRating:          in.StaffRating,
		PricingRating:        in.PricingRating,
		OverallRating:        in.OverallRating,
		NecessitiesAvailable: in.NecessitiesAvailable,
		Text:                 strings.TrimSpace(in.Text),
		ImageRef:             imageRef,
		CreatedAt:            s.now(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.publishSubmitted(ctx, review)
	}

	return review, nil
}

// publishSubmitted announces review with the vendor's refreshed stats
func (s *ReviewService) publishSubmitted(ctx context.Context, review *entities.Review) {
	event := entities.NewVendorEvent(review.VendorID, entities.VendorEventTypeReviewSubmitted)
	event.Review = review
	if all, err := s.reviews.ListByVendor(ctx, review.VendorID); err == nil {
		stats := ComputeStats(all)
		event.Stats = &stats
	} else {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("vendor_id", review.VendorID).Msg("failed to load stats for review event")
	}
	publish(ctx, s.eventBus, event)
}

func validateRatings(in ReviewInput) error {
	ratings := []struct {
		name  string
		value int
	}{
		{"hygiene_rating", in.HygieneRating},
		{"staff_rating", in.StaffRating},
		{"pricing_rating", in.PricingRating},
		{"overall_rating", in.OverallRating},
	}
	for _, r := range ratings {
		if r.value < entities.MinRating || r.value > entities.MaxRating {
			return apperrors.NewValidationError(fmt.Sprintf("%s must be between %d and %d", r.name, entities.MinRating, entities.MaxRating))
		}
	}
	return nil
}

// publish sends event to the vendor channel and the global channel. Failures are logged.
func publish(ctx context.Context, bus providers.EventBus, event *entities.VendorEvent) {
	if bus == nil {
		return
	}
	logger := observability.LoggerFromContext(ctx)
	for _, channel := range []string{providers.GetVendorChannel(event.VendorID), providers.EventChannelVendorUpdates} {
		if err := bus.Publish(ctx, channel, event); err != nil {
			logger.Warn().Err(err).Str("channel", channel).Str("vendor_id", event.VendorID).Msg("failed to publish vendor event")
		}
	}
}
