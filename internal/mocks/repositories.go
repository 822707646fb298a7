// Package mocks holds testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
)

// T is the subset of *testing.T the constructors need
type T interface {
	mock.TestingT
	Cleanup(func())
}

func register(t T, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct{ mock.Mock }

var _ repositories.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository(t T) *MockUserRepository {
	m := &MockUserRepository{}
	register(t, &m.Mock)
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]*entities.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v interface{}) *entities.User {
	u, _ := v.(*entities.User)
	return u
}

// MockVendorRepository mocks repositories.VendorRepository
type MockVendorRepository struct{ mock.Mock }

var _ repositories.VendorRepository = (*MockVendorRepository)(nil)

func NewMockVendorRepository(t T) *MockVendorRepository {
	m := &MockVendorRepository{}
	register(t, &m.Mock)
	return m
}

func (m *MockVendorRepository) Create(ctx context.Context, vendor *entities.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorRepository) GetByID(ctx context.Context, id string) (*entities.Vendor, error) {
	args := m.Called(ctx, id)
	return vendorOrNil(args.Get(0)), args.Error(1)
}

func (m *MockVendorRepository) GetByOwner(ctx context.Context, userID string) (*entities.Vendor, error) {
	args := m.Called(ctx, userID)
	return vendorOrNil(args.Get(0)), args.Error(1)
}

func (m *MockVendorRepository) Update(ctx context.Context, vendor *entities.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorRepository) ListSummaries(ctx context.Context, filter repositories.VendorFilter) ([]entities.VendorSummary, error) {
	args := m.Called(ctx, filter)
	summaries, _ := args.Get(0).([]entities.VendorSummary)
	return summaries, args.Error(1)
}

func (m *MockVendorRepository) ListAll(ctx context.Context) ([]*entities.Vendor, error) {
	args := m.Called(ctx)
	vendors, _ := args.Get(0).([]*entities.Vendor)
	return vendors, args.Error(1)
}

func vendorOrNil(v interface{}) *entities.Vendor {
	vendor, _ := v.(*entities.Vendor)
	return vendor
}

// MockReviewRepository mocks repositories.ReviewRepository
type MockReviewRepository struct{ mock.Mock }

var _ repositories.ReviewRepository = (*MockReviewRepository)(nil)

func NewMockReviewRepository(t T) *MockReviewRepository {
	m := &MockReviewRepository{}
	register(t, &m.Mock)
	return m
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) ListByVendor(ctx context.Context, vendorID string) ([]*entities.Review, error) {
	args := m.Called(ctx, vendorID)
	reviews, _ := args.Get(0).([]*entities.Review)
	return reviews, args.Error(1)
}

// MockVendorSearchRepository mocks repositories.VendorSearchRepository
type MockVendorSearchRepository struct{ mock.Mock }

var _ repositories.VendorSearchRepository = (*MockVendorSearchRepository)(nil)

func NewMockVendorSearchRepository(t T) *MockVendorSearchRepository {
	m := &MockVendorSearchRepository{}
	register(t, &m.Mock)
	return m
}

func (m *MockVendorSearchRepository) Index(ctx context.Context, vendor *entities.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *MockVendorSearchRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVendorSearchRepository) Suggest(ctx context.Context, query string, limit int) ([]repositories.VendorSuggestion, error) {
	args := m.Called(ctx, query, limit)
	suggestions, _ := args.Get(0).([]repositories.VendorSuggestion)
	return suggestions, args.Error(1)
}
