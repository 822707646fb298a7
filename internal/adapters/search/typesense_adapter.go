package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
	tsclient "github.com/vendorshub/backend/internal/infrastructure/clients/typesense"
)

const maxSuggestions = 20

// TypesenseAdapter implements vendor suggestions using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.VendorSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a vendor document
func (a *TypesenseAdapter) Index(ctx context.Context, vendor *entities.Vendor) error {
	_, err := a.client.Client().Collection(tsclient.VendorsCollection).Documents().Upsert(ctx, vendorDocument(vendor))
	if err != nil {
		return fmt.Errorf("failed to index vendor: %w", err)
	}
	return nil
}

// Delete removes a vendor from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.VendorsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete vendor from index: %w", err)
	}
	return nil
}

// Suggest runs a prefix search over business name, city and category
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]repositories.VendorSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []repositories.VendorSuggestion{}, nil
	}
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("business_name,city,category"),
		Prefix:  pointer.String("true"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.VendorsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search vendors: %w", err)
	}

	suggestions := []repositories.VendorSuggestion{}
	if result.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		suggestions = append(suggestions, suggestionFromDocument(*hit.Document))
	}

	return suggestions, nil
}

func vendorDocument(v *entities.Vendor) map[string]interface{} {
	return map[string]interface{}{
		"id":            v.ID,
		"business_name": v.BusinessName,
		"category":      v.Category,
		"state":         v.State,
		"city":          v.City,
		"description":   v.Description,
		"created_at":    v.CreatedAt.Unix(),
	}
}

func suggestionFromDocument(doc map[string]interface{}) repositories.VendorSuggestion {
	str := func(key string) string {
		s, _ := doc[key].(string)
		return s
	}
	return repositories.VendorSuggestion{
		ID:           str("id"),
		BusinessName: str("business_name"),
		Category:     str("category"),
		City:         str("city"),
		State:        str("state"),
	}
}
