package adapter

import (
	"context"

	catalogapp "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/app"
	checkoutapp "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/app"
)

// CatalogServiceReader adapts the catalog service to the checkout port.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetItem(ctx context.Context, restaurantID, itemID string) (checkoutapp.CatalogItem, error) {
	it, err := r.svc.FindItem(ctx, restaurantID, itemID)
	if err != nil {
		return checkoutapp.CatalogItem{}, err
	}

	out := checkoutapp.CatalogItem{
		ID:         it.ID,
		Name:       it.Name,
		Available:  it.Available,
		PriceCents: it.PriceCents,
	}
	for _, v := range it.Variants {
		out.Variants = append(out.Variants, checkoutapp.CatalogVariant{
			ID:         v.ID,
			PriceCents: v.PriceCents,
		})
	}
	return out, nil
}
