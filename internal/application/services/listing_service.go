package services

import (
	"context"
	"sort"

	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
)

// ListingSize is the number of vendors in each home page section
const ListingSize = 6

// ListingQuery holds the optional directory filters
type ListingQuery struct {
	Search   string
	Category string
	City     string
}

// ListingService builds the top rated and most recent vendor sections
type ListingService struct {
	vendors repositories.VendorRepository
}

// NewListingService creates a new listing service
func NewListingService(vendors repositories.VendorRepository) *ListingService {
	return &ListingService{vendors: vendors}
}

// List returns at most ListingSize vendors by rating and at most ListingSize by recency
func (s *ListingService) List(ctx context.Context, q ListingQuery) (*entities.Listing, error) {
	summaries, err := s.vendors.ListSummaries(ctx, repositories.VendorFilter{
		Search:   q.Search,
		Category: q.Category,
		City:     q.City,
	})
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		summaries[i].AvgRating = round1(summaries[i].AvgRating)
		if summaries[i].ReviewCount == 0 {
			summaries[i].AvgRating = 0
		}
	}

	return &entities.Listing{
		Top:    TopRated(summaries, ListingSize),
		Recent: MostRecent(summaries, ListingSize),
	}, nil
}

// TopRated returns up to n summaries by average rating, ties broken by id
func TopRated(summaries []entities.VendorSummary, n int) []entities.VendorSummary {
	return topN(summaries, n, func(a, b entities.VendorSummary) bool {
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		return a.ID < b.ID
	})
}

// MostRecent returns up to n summaries by creation time, ties broken by id
func MostRecent(summaries []entities.VendorSummary, n int) []entities.VendorSummary {
	return topN(summaries, n, func(a, b entities.VendorSummary) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func topN(summaries []entities.VendorSummary, n int, less func(a, b entities.VendorSummary) bool) []entities.VendorSummary {
	sorted := make([]entities.VendorSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
