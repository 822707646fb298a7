package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/observability"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

// ImageSaver stores an uploaded image and returns its reference, or nil when
// nothing was uploaded. Services call it only after every check has passed.
type ImageSaver func(ctx context.Context) (*string, error)

// storeImage resolves the image reference, running save when one is pending
func storeImage(ctx context.Context, ref *string, save ImageSaver) (*string, error) {
	if save == nil {
		return ref, nil
	}
	stored, err := save(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return ref, nil
	}
	return stored, nil
}

// VendorInput carries the editable fields of a listing
type VendorInput struct {
	BusinessName string
	Category     string
	Description  string
	State        string
	City         string
	Address      string
	ImageRef     *string
	SaveImage    ImageSaver
}

func (in VendorInput) normalized() VendorInput {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.State = strings.TrimSpace(in.State)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

func (in VendorInput) validate() error {
	switch {
	case in.BusinessName == "":
		return apperrors.NewValidationError("business_name is required")
	case in.City == "":
		return apperrors.NewValidationError("city is required")
	case !entities.IsValidState(in.State):
		return apperrors.NewValidationError("Invalid state selected")
	case !entities.IsValidCategory(in.Category):
		return apperrors.NewValidationError("Invalid category selected")
	}
	return nil
}

// Dashboard is a vendor owner's view of their own listing
type Dashboard struct {
	Vendor  *entities.Vendor     `json:"vendor"`
	Reviews []*entities.Review   `json:"reviews"`
	Stats   entities.ReviewStats `json:"stats"`
}

// VendorService manages the single listing each vendor user owns
type VendorService struct {
	vendors  repositories.VendorRepository
	reviews  repositories.ReviewRepository
	search   repositories.VendorSearchRepository
	eventBus providers.EventBus
	now      func() time.Time
}

// NewVendorService creates a new vendor service. search and eventBus may be nil.
func NewVendorService(
	vendors repositories.VendorRepository,
	reviews repositories.ReviewRepository,
	search repositories.VendorSearchRepository,
	eventBus providers.EventBus,
) *VendorService {
	return &VendorService{
		vendors:  vendors,
		reviews:  reviews,
		search:   search,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create registers the caller's listing
func (s *VendorService) Create(ctx context.Context, identity entities.Identity, in VendorInput) (*entities.Vendor, error) {
	if !identity.IsVendor() {
		return nil, apperrors.NewForbiddenError("only vendors can create a listing")
	}

	existing, err := s.vendors.GetByOwner(ctx, identity.UserID)
	if err != nil && !apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("Vendor profile already exists")
	}

	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.ImageRef, err = storeImage(ctx, in.ImageRef, in.SaveImage); err != nil {
		return nil, err
	}

	now := s.now()
	vendor := &entities.Vendor{
		ID:           uuid.NewString(),
		UserID:       identity.UserID,
		BusinessName: in.BusinessName,
		Category:     in.Category,
		Description:  in.Description,
		State:        in.State,
		City:         in.City,
		Address:      in.Address,
		ImageRef:     in.ImageRef,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, vendor)
	return vendor, nil
}

// Edit updates the caller's listing. The image is kept unless a new one is given.
func (s *VendorService) Edit(ctx context.Context, identity entities.Identity, in VendorInput) (*entities.Vendor, error) {
	if !identity.IsVendor() {
		return nil, apperrors.NewForbiddenError("only vendors can edit a listing")
	}

	vendor, err := s.vendors.GetByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.ImageRef, err = storeImage(ctx, in.ImageRef, in.SaveImage); err != nil {
		return nil, err
	}

	vendor.BusinessName = in.BusinessName
	vendor.Category = in.Category
	vendor.Description = in.Description
	vendor.State = in.State
	vendor.City = in.City
	vendor.Address = in.Address
	if in.ImageRef != nil && *in.ImageRef != "" {
		vendor.ImageRef = in.ImageRef
	}

	if err := s.vendors.Update(ctx, vendor); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, vendor)
	return vendor, nil
}

// Dashboard returns the caller's listing with every review and unfiltered stats.
// Vendor is nil when the caller has not created a listing yet.
func (s *VendorService) Dashboard(ctx context.Context, identity entities.Identity) (*Dashboard, error) {
	if !identity.IsVendor() {
		return nil, apperrors.NewForbiddenError("only vendors have a dashboard")
	}

	vendor, err := s.vendors.GetByOwner(ctx, identity.UserID)
	if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return &Dashboard{Reviews: []*entities.Review{}}, nil
	}
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByVendor(ctx, vendor.ID)
	if err != nil {
		return nil, err
	}
	SortReviews(reviews, SortRecent)

	return &Dashboard{
		Vendor:  vendor,
		Reviews: reviews,
		Stats:   ComputeStats(reviews),
	}, nil
}

// Reindex pushes every vendor into the search index and returns how many were indexed
func (s *VendorService) Reindex(ctx context.Context) (int, error) {
	if s.search == nil {
		return 0, apperrors.NewInternalError("search index not configured", nil)
	}

	vendors, err := s.vendors.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, v := range vendors {
		if err := s.search.Index(ctx, v); err != nil {
			return indexed, apperrors.NewExternalError("failed to index vendor "+v.ID, err)
		}
		indexed++
	}
	return indexed, nil
}

func (s *VendorService) afterWrite(ctx context.Context, vendor *entities.Vendor) {
	if s.search != nil {
		if err := s.search.Index(ctx, vendor); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("vendor_id", vendor.ID).Msg("failed to index vendor")
		}
	}
	publish(ctx, s.eventBus, entities.NewVendorEvent(vendor.ID, entities.VendorEventTypeUpdated))
}
