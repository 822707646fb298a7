package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
)

// CacheInvalidationService evicts cached vendor reads when vendor events arrive.
// It lets replicas that did not serve the write drop their stale entries.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start subscribes to the global vendor channel and processes events in the background
func (s *CacheInvalidationService) Start() error {
	events, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelVendorUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to vendor updates: %w", err)
	}

	s.started = true
	go s.processEvents(events)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop cancels the subscription and waits for the worker to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(events <-chan *entities.VendorEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.VendorEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug().
		Str("event_id", event.ID).
		Str("vendor_id", event.VendorID).
		Str("type", string(event.EventType)).
		Msg("Processing cache invalidation")

	if err := s.InvalidateVendor(ctx, event.VendorID); err != nil {
		log.Warn().Err(err).Str("vendor_id", event.VendorID).Msg("Failed to invalidate vendor caches")
	}
}

// InvalidateVendor drops the cached record, the listing pages and the HTTP responses for one vendor
func (s *CacheInvalidationService) InvalidateVendor(ctx context.Context, vendorID string) error {
	if err := s.cache.Delete(ctx, providers.VendorCacheKey(vendorID)); err != nil {
		return fmt.Errorf("failed to delete vendor cache: %w", err)
	}

	patterns := []string{
		providers.VendorListKeyPrefix + "*",
		"http:cache:*vendors*",
	}
	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}
