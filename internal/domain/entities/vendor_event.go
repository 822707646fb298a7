package entities

import (
	"time"

	"github.com/google/uuid"
)

// VendorEventType represents the kind of change to a vendor
type VendorEventType string

const (
	VendorEventTypeUpdated         VendorEventType = "vendor_updated"
	VendorEventTypeReviewSubmitted VendorEventType = "review_submitted"
)

// VendorEvent is published whenever a vendor or its reviews change
type VendorEvent struct {
	ID        string          `json:"id"`
	VendorID  string          `json:"vendor_id"`
	EventType VendorEventType `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Review    *Review         `json:"review,omitempty"`
	Stats     *ReviewStats    `json:"stats,omitempty"`
}

// NewVendorEvent creates a new vendor event
func NewVendorEvent(vendorID string, eventType VendorEventType) *VendorEvent {
	return &VendorEvent{
		ID:        uuid.NewString(),
		VendorID:  vendorID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}
