package app

import (
	"context"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
)

// CatalogFetcher pulls the raw (already field-coalesced) catalog for one
// restaurant from the upstream menu API.
type CatalogFetcher interface {
	FetchMenu(ctx context.Context, restaurantID string) ([]domain.Item, error)
}
