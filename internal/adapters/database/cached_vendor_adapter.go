package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/providers"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	vendorByIDTTL  = 300
	vendorsListTTL = 60
)

func vendorsListCacheKey(filter repositories.VendorFilter) string {
	return fmt.Sprintf("%s%s|%s|%s", providers.VendorListKeyPrefix,
		strings.ToLower(strings.TrimSpace(filter.Search)),
		filter.Category,
		strings.ToLower(strings.TrimSpace(filter.City)))
}

// CachedVendorAdapter wraps a VendorRepository with read-through caching of
// single vendors and directory listings. Writes evict the affected keys and
// advance a generation counter; a read that overlapped a write is not cached.
type CachedVendorAdapter struct {
	adapter    repositories.VendorRepository
	cache      providers.CacheProvider
	generation atomic.Int64
}

// NewCachedVendorAdapter creates a new cached vendor adapter
func NewCachedVendorAdapter(adapter repositories.VendorRepository, cache providers.CacheProvider) repositories.VendorRepository {
	return &CachedVendorAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Create inserts through and drops cached listings
func (a *CachedVendorAdapter) Create(ctx context.Context, vendor *entities.Vendor) error {
	if err := a.adapter.Create(ctx, vendor); err != nil {
		return err
	}
	a.evictListings(ctx)
	return nil
}

// GetByID retrieves a vendor with caching
func (a *CachedVendorAdapter) GetByID(ctx context.Context, id string) (*entities.Vendor, error) {
	key := providers.VendorCacheKey(id)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var vendor entities.Vendor
		if err := json.Unmarshal(cached, &vendor); err == nil {
			return &vendor, nil
		}
		observability.LoggerFromContext(ctx).Warn().Str("vendor_id", id).Msg("discarding undecodable cached vendor")
	}

	gen := a.generation.Load()
	vendor, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.setAsync(key, vendor, vendorByIDTTL, gen)
	return vendor, nil
}

// GetByOwner is not cached; it backs the owner's own edit flow
func (a *CachedVendorAdapter) GetByOwner(ctx context.Context, userID string) (*entities.Vendor, error) {
	return a.adapter.GetByOwner(ctx, userID)
}

// Update writes through and evicts the vendor and listings
func (a *CachedVendorAdapter) Update(ctx context.Context, vendor *entities.Vendor) error {
	if err := a.adapter.Update(ctx, vendor); err != nil {
		return err
	}
	a.generation.Add(1)
	if err := a.cache.Delete(ctx, providers.VendorCacheKey(vendor.ID)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("vendor_id", vendor.ID).Msg("failed to evict cached vendor")
	}
	a.evictListings(ctx)
	return nil
}

// ListSummaries retrieves the directory listing with caching
func (a *CachedVendorAdapter) ListSummaries(ctx context.Context, filter repositories.VendorFilter) ([]entities.VendorSummary, error) {
	key := vendorsListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var summaries []entities.VendorSummary
		if err := json.Unmarshal(cached, &summaries); err == nil {
			return summaries, nil
		}
	}

	gen := a.generation.Load()
	summaries, err := a.adapter.ListSummaries(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.setAsync(key, summaries, vendorsListTTL, gen)
	return summaries, nil
}

// ListAll is not cached
func (a *CachedVendorAdapter) ListAll(ctx context.Context) ([]*entities.Vendor, error) {
	return a.adapter.ListAll(ctx)
}

func (a *CachedVendorAdapter) evictListings(ctx context.Context) {
	a.generation.Add(1)
	if err := a.cache.DeletePattern(ctx, providers.VendorListKeyPrefix+"*"); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to evict cached vendor listings")
	}
}

// setAsync caches value unless a write has landed since gen was read
func (a *CachedVendorAdapter) setAsync(key string, value interface{}, ttl int, gen int64) {
	if a.generation.Load() != gen {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	go func() {
		if a.generation.Load() != gen {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to populate cache")
		}
	}()
}
