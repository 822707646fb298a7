package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vendorshub/backend/internal/api/handlers"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/mocks"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

func TestSSEHandler_StreamVendorEvents(t *testing.T) {
	eventBus := mocks.NewMockEventBus(t)
	vendors := mocks.NewMockVendorRepository(t)
	handler := handlers.NewSSEHandler(eventBus, vendors, nil)
	handler.SetHeartbeatInterval(20 * time.Millisecond)

	events := make(chan *entities.VendorEvent, 1)
	vendors.On("GetByID", mock.Anything, "v1").Return(&entities.Vendor{ID: "v1"}, nil)
	eventBus.On("Subscribe", mock.Anything, providers.GetVendorChannel("v1")).Return(events, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/vendors/v1/events", nil).WithContext(ctx)
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.StreamVendorEvents(rec, req)
		close(done)
	}()

	event := entities.NewVendorEvent("v1", entities.VendorEventTypeReviewSubmitted)
	event.Review = &entities.Review{ID: "r1", VendorID: "v1", OverallRating: 5}
	events <- event

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after cancel")
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: review_submitted\n")
	assert.Contains(t, body, `"id":"r1"`)
	assert.Contains(t, body, "event: heartbeat\n")
	assert.Equal(t, 0, handler.GetClientCount())
}

func TestSSEHandler_UnknownVendor(t *testing.T) {
	eventBus := mocks.NewMockEventBus(t)
	vendors := mocks.NewMockVendorRepository(t)
	vendors.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("vendor not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/vendors/missing/events", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handlers.NewSSEHandler(eventBus, vendors, nil).StreamVendorEvents(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventBus.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
}

func TestSSEHandler_NoEventBus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/vendors/v1/events", nil)
	req.SetPathValue("id", "v1")
	rec := httptest.NewRecorder()
	handlers.NewSSEHandler(nil, mocks.NewMockVendorRepository(t), nil).StreamVendorEvents(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
