package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vendorshub/backend/internal/api/handlers"
	"github.com/vendorshub/backend/internal/api/middleware"
	"github.com/vendorshub/backend/internal/application/services"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/mocks"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

type routerDeps struct {
	vendors *mocks.MockVendorRepository
	reviews *mocks.MockReviewRepository
	users   *mocks.MockUserRepository
	tokens  *mocks.MockTokenProvider
	handler http.Handler
}

func newTestRouter(t *testing.T) routerDeps {
	d := routerDeps{
		vendors: mocks.NewMockVendorRepository(t),
		reviews: mocks.NewMockReviewRepository(t),
		users:   mocks.NewMockUserRepository(t),
		tokens:  mocks.NewMockTokenProvider(t),
	}
	uploads := handlers.NewUploads(mocks.NewMockImageStore(t), 0)

	h := Handlers{
		Health:  handlers.NewHealthHandler(nil),
		Auth:    handlers.NewAuthHandler(services.NewAccountService(d.users, d.tokens)),
		Listing: handlers.NewListingHandler(services.NewListingService(d.vendors), nil),
		Vendor:  handlers.NewVendorHandler(services.NewVendorService(d.vendors, d.reviews, nil, nil), uploads),
		Review:  handlers.NewReviewHandler(services.NewReviewService(d.vendors, d.reviews, nil), uploads),
	}
	d.handler = NewRouter(h, middleware.NewAuth(d.tokens), nil, d.users, nil, []string{"*"}).SetupRoutes()
	return d
}

func TestRouter_Health(t *testing.T) {
	d := newTestRouter(t)

	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_OwnerRoutesRequireToken(t *testing.T) {
	d := newTestRouter(t)

	for _, target := range []struct{ method, path string }{
		{http.MethodPost, "/api/vendor"},
		{http.MethodPut, "/api/vendor"},
		{http.MethodGet, "/api/vendor/dashboard"},
		{http.MethodPost, "/api/vendors/v1/reviews"},
	} {
		rec := httptest.NewRecorder()
		d.handler.ServeHTTP(rec, httptest.NewRequest(target.method, target.path, strings.NewReader("{}")))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target.path)
	}
}

func TestRouter_VendorDetailWithAuthors(t *testing.T) {
	d := newTestRouter(t)
	d.vendors.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)
	d.reviews.On("ListByVendor", mock.Anything, "v1").Return([]*entities.Review{
		{ID: "r1", VendorID: "v1", CustomerID: "c1", OverallRating: 4},
	}, nil)
	d.users.On("GetByIDs", mock.Anything, []string{"c1"}).Return([]*entities.User{{ID: "c1", Name: "Asha"}}, nil)

	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendors/v1?sort=lowest", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body entities.VendorReviews
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Reviews, 1)
	require.NotNil(t, body.Reviews[0].Author)
	assert.Equal(t, "Asha", body.Reviews[0].Author.Name)
}

func TestRouter_DashboardWithToken(t *testing.T) {
	d := newTestRouter(t)
	d.tokens.On("Verify", "tok").Return(entities.Identity{UserID: "owner-1", Role: entities.RoleVendor}, nil)
	d.vendors.On("GetByOwner", mock.Anything, "owner-1").Return(nil, apperrors.NewNotFoundError("vendor not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/vendor/dashboard", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
