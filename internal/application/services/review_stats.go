package services

import (
	"math"
	"sort"
	"strings"

	"github.com/vendorshub/backend/internal/domain/entities"
)

// ReviewSort orders a vendor's reviews
type ReviewSort string

const (
	SortRecent  ReviewSort = "recent"
	SortHighest ReviewSort = "highest"
	SortLowest  ReviewSort = "lowest"
)

// ParseReviewSort maps a query value to a sort key; unknown values mean recent
func ParseReviewSort(v string) ReviewSort {
	switch ReviewSort(strings.ToLower(strings.TrimSpace(v))) {
	case SortHighest:
		return SortHighest
	case SortLowest:
		return SortLowest
	default:
		return SortRecent
	}
}

// ReviewQuery filters and orders the reviews of one vendor. Nil fields do not filter.
type ReviewQuery struct {
	HygieneMin  *int
	StaffMin    *int
	PricingMin  *int
	Necessities *bool
	Sort        ReviewSort
}

func (q ReviewQuery) matches(r *entities.Review) bool {
	if q.HygieneMin != nil && r.HygieneRating < *q.HygieneMin {
		return false
	}
	if q.StaffMin != nil && r.StaffRating < *q.StaffMin {
		return false
	}
	if q.PricingMin != nil && r.PricingRating < *q.PricingMin {
		return false
	}
	if q.Necessities != nil && r.NecessitiesAvailable != *q.Necessities {
		return false
	}
	return true
}

// FilterReviews returns the reviews satisfying every set criterion, preserving order
func FilterReviews(reviews []*entities.Review, q ReviewQuery) []*entities.Review {
	out := make([]*entities.Review, 0, len(reviews))
	for _, r := range reviews {
		if q.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortReviews orders reviews in place. Ties on rating fall back to newest first, then id.
func SortReviews(reviews []*entities.Review, key ReviewSort) {
	newestFirst := func(a, b *entities.Review) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		switch key {
		case SortHighest:
			if a.OverallRating != b.OverallRating {
				return a.OverallRating > b.OverallRating
			}
		case SortLowest:
			if a.OverallRating != b.OverallRating {
				return a.OverallRating < b.OverallRating
			}
		}
		return newestFirst(a, b)
	})
}

// ComputeStats aggregates reviews. Every figure is 0 for an empty set.
func ComputeStats(reviews []*entities.Review) entities.ReviewStats {
	n := len(reviews)
	if n == 0 {
		return entities.ReviewStats{}
	}

	var overall, hygiene, staff, pricing, necessities int
	for _, r := range reviews {
		overall += r.OverallRating
		hygiene += r.HygieneRating
		staff += r.StaffRating
		pricing += r.PricingRating
		if r.NecessitiesAvailable {
			necessities++
		}
	}

	count := float64(n)
	return entities.ReviewStats{
		AvgRating:          round1(float64(overall) / count),
		AvgHygiene:         round1(float64(hygiene) / count),
		AvgStaff:           round1(float64(staff) / count),
		AvgPricing:         round1(float64(pricing) / count),
		NecessitiesPercent: round1(float64(necessities) / count * 100),
		TotalReviews:       n,
	}
}

// round1 rounds half away from zero to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
