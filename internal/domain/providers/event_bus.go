package providers

import (
	"context"

	"github.com/vendorshub/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to vendor events
type EventBus interface {
	// Publish publishes an event to all subscribers of channel
	Publish(ctx context.Context, channel string, event *entities.VendorEvent) error

	// Subscribe subscribes to events on a channel until ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.VendorEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelVendorUpdates carries every vendor event
	EventChannelVendorUpdates = "vendor:updates"

	// EventChannelVendorPrefix is the prefix for vendor-specific channels
	EventChannelVendorPrefix = "vendor:"
)

// GetVendorChannel returns the channel name for a specific vendor
func GetVendorChannel(vendorID string) string {
	return EventChannelVendorPrefix + vendorID
}
