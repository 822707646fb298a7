package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vendorshub/backend/internal/application/services"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/mocks"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

var customer = entities.Identity{UserID: "cust-1", Role: entities.RoleCustomer}

func validReviewInput() services.ReviewInput {
	return services.ReviewInput{
		HygieneRating:        4,
		StaffRating:          5,
		PricingRating:        3,
		OverallRating:        4,
		NecessitiesAvailable: true,
		Text:                 "  Clean and friendly  ",
	}
}

func TestReviewService_VendorReviews_FiltersSortsAndComputesStats(t *testing.T) {
	ctx := context.Background()
	vendorRepo := mocks.NewMockVendorRepository(t)
	reviewRepo := mocks.NewMockReviewRepository(t)
	service := services.NewReviewService(vendorRepo, reviewRepo, nil)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	reviews := []*entities.Review{
		{ID: "r1", VendorID: "v1", OverallRating: 5, HygieneRating: 5, StaffRating: 4, PricingRating: 4, NecessitiesAvailable: true, CreatedAt: base},
		{ID: "r2", VendorID: "v1", OverallRating: 3, HygieneRating: 4, StaffRating: 3, PricingRating: 3, CreatedAt: base.Add(time.Hour)},
		{ID: "r3", VendorID: "v1", OverallRating: 1, HygieneRating: 1, StaffRating: 1, PricingRating: 1, CreatedAt: base.Add(2 * time.Hour)},
	}

	vendorRepo.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1", BusinessName: "Chai Point"}, nil)
	reviewRepo.On("ListByVendor", mock.Anything, "v1").Return(reviews, nil)

	result, err := service.VendorReviews(ctx, "v1", services.ReviewQuery{
		HygieneMin: intPtr(4),
		Sort:       services.SortLowest,
	})
	require.NoError(t, err)

	assert.Equal(t, "Chai Point", result.Vendor.BusinessName)
	assert.Equal(t, []string{"r2", "r1"}, ids(result.Reviews))
	assert.Equal(t, 2, result.Stats.TotalReviews)
	assert.Equal(t, 4.0, result.Stats.AvgRating)
	assert.Equal(t, 4.5, result.Stats.AvgHygiene)
	assert.Equal(t, 50.0, result.Stats.NecessitiesPercent)
}

func TestReviewService_VendorReviews_NoMatches(t *testing.T) {
	vendorRepo := mocks.NewMockVendorRepository(t)
	reviewRepo := mocks.NewMockReviewRepository(t)
	service := services.NewReviewService(vendorRepo, reviewRepo, nil)

	vendorRepo.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)
	reviewRepo.On("ListByVendor", mock.Anything, "v1").Return([]*entities.Review{
		{ID: "r1", HygieneRating: 2, CreatedAt: time.Now()},
	}, nil)

	result, err := service.VendorReviews(context.Background(), "v1", services.ReviewQuery{HygieneMin: intPtr(5)})
	require.NoError(t, err)
	assert.Empty(t, result.Reviews)
	assert.Equal(t, entities.ReviewStats{}, result.Stats)
}

func TestReviewService_VendorReviews_UnknownVendor(t *testing.T) {
	vendorRepo := mocks.NewMockVendorRepository(t)
	reviewRepo := mocks.NewMockReviewRepository(t)
	service := services.NewReviewService(vendorRepo, reviewRepo, nil)

	vendorRepo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("vendor not found"))

	_, err := service.VendorReviews(context.Background(), "missing", services.ReviewQuery{})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
	reviewRepo.AssertNotCalled(t, "ListByVendor", mock.Anything, mock.Anything)
}

func TestReviewService_Submit(t *testing.T) {
	ctx := context.Background()
	vendorRepo := mocks.NewMockVendorRepository(t)
	reviewRepo := mocks.NewMockReviewRepository(t)
	eventBus := mocks.NewMockEventBus(t)
	service := services.NewReviewService(vendorRepo, reviewRepo, eventBus)

	vendorRepo.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)

	var stored *entities.Review
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Review")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entities.Review) }).
		Return(nil)
	reviewRepo.On("ListByVendor", mock.Anything, "v1").Return([]*entities.Review{
		{ID: "old", OverallRating: 2, HygieneRating: 2, StaffRating: 2, PricingRating: 2},
	}, nil)

	isReviewEvent := mock.MatchedBy(func(e *entities.VendorEvent) bool {
		return e.VendorID == "v1" && e.EventType == entities.VendorEventTypeReviewSubmitted && e.Review != nil && e.Stats != nil
	})
	eventBus.On("Publish", mock.Anything, providers.GetVendorChannel("v1"), isReviewEvent).Return(nil).Once()
	eventBus.On("Publish", mock.Anything, providers.EventChannelVendorUpdates, isReviewEvent).Return(nil).Once()

	got, err := service.Submit(ctx, customer, "v1", validReviewInput())
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Same(t, stored, got)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "v1", got.VendorID)
	assert.Equal(t, "cust-1", got.CustomerID)
	assert.Equal(t, "Clean and friendly", got.Text)
	assert.True(t, got.NecessitiesAvailable)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestReviewService_Submit_PublishFailureDoesNotFail(t *testing.T) {
	vendorRepo := mocks.NewMockVendorRepository(t)
	reviewRepo := mocks.NewMockReviewRepository(t)
	eventBus := mocks.NewMockEventBus(t)
	service := services.NewReviewService(vendorRepo, reviewRepo, eventBus)

	vendorRepo.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)
	reviewRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	reviewRepo.On("ListByVendor", mock.Anything, "v1").Return(nil, assert.AnError)
	eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Twice()

	_, err := service.Submit(context.Background(), customer, "v1", validReviewInput())
	assert.NoError(t, err)
}

func TestReviewService_Submit_Rejections(t *testing.T) {
	outOfRange := validReviewInput()
	outOfRange.PricingRating = 6

	zero := validReviewInput()
	zero.OverallRating = 0

	tests := []struct {
		name     string
		identity entities.Identity
		vendor   *entities.Vendor
		input    services.ReviewInput
		wantType apperrors.ErrorType
	}{
		{"vendor role", entities.Identity{UserID: "u1", Role: entities.RoleVendor}, nil, validReviewInput(), apperrors.ErrorTypeForbidden},
		{"unknown vendor", customer, nil, validReviewInput(), apperrors.ErrorTypeNotFound},
		{"rating above range", customer, &entities.Vendor{ID: "v1"}, outOfRange, apperrors.ErrorTypeValidation},
		{"rating below range", customer, &entities.Vendor{ID: "v1"}, zero, apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendorRepo := mocks.NewMockVendorRepository(t)
			reviewRepo := mocks.NewMockReviewRepository(t)
			service := services.NewReviewService(vendorRepo, reviewRepo, nil)

			if tt.identity.IsCustomer() {
				if tt.vendor != nil {
					vendorRepo.On("GetByID", mock.Anything, "v1").Return(tt.vendor, nil)
				} else {
					vendorRepo.On("GetByID", mock.Anything, "v1").Return(nil, apperrors.NewNotFoundError("vendor not found"))
				}
			}

			in := tt.input
			in.SaveImage = func(context.Context) (*string, error) {
				t.Error("image stored for a rejected review")
				return nil, nil
			}

			_, err := service.Submit(context.Background(), tt.identity, "v1", in)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestReviewService_Submit_StoresImageAfterChecks(t *testing.T) {
	t.Run("stored reference is kept", func(t *testing.T) {
		vendorRepo := mocks.NewMockVendorRepository(t)
		reviewRepo := mocks.NewMockReviewRepository(t)
		service := services.NewReviewService(vendorRepo, reviewRepo, nil)

		vendorRepo.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)
		reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Review")).Return(nil)

		ref := "review_cust-1_v1_plate.png"
		in := validReviewInput()
		in.SaveImage = func(context.Context) (*string, error) { return &ref, nil }

		got, err := service.Submit(context.Background(), customer, "v1", in)
		require.NoError(t, err)
		require.NotNil(t, got.ImageRef)
		assert.Equal(t, ref, *got.ImageRef)
	})

	t.Run("storage failure aborts the insert", func(t *testing.T) {
		vendorRepo := mocks.NewMockVendorRepository(t)
		reviewRepo := mocks.NewMockReviewRepository(t)
		service := services.NewReviewService(vendorRepo, reviewRepo, nil)

		vendorRepo.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)

		in := validReviewInput()
		in.SaveImage = func(context.Context) (*string, error) {
			return nil, apperrors.NewExternalError("failed to store image", assert.AnError)
		}

		_, err := service.Submit(context.Background(), customer, "v1", in)
		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeExternal))
		reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
