package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
)

// CacheWarmingService keeps the home page listings hot. vendors is expected to be
// the cache-backed repository so each read populates the listing cache.
type CacheWarmingService struct {
	vendors repositories.VendorRepository
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(vendors repositories.VendorRepository) *CacheWarmingService {
	return &CacheWarmingService{vendors: vendors}
}

// WarmCache loads the unfiltered listing and one listing per category.
// It returns how many listings were warmed; individual failures are logged.
func (s *CacheWarmingService) WarmCache(ctx context.Context) int {
	filters := make([]repositories.VendorFilter, 0, len(entities.BusinessCategories)+1)
	filters = append(filters, repositories.VendorFilter{})
	for _, category := range entities.BusinessCategories {
		filters = append(filters, repositories.VendorFilter{Category: category})
	}

	warmed := 0
	for _, filter := range filters {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.vendors.ListSummaries(ctx, filter); err != nil {
			log.Warn().Err(err).Str("category", filter.Category).Msg("Failed to warm vendor listing")
			continue
		}
		warmed++
	}

	log.Debug().Int("warmed", warmed).Msg("Cache warming completed")
	return warmed
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	s.WarmCache(ctx)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
