package adapter

import (
	cartapp "github.com/hoterry/whatsdish-mobile-sub001/internal/cart/app"
	checkoutapp "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/app"
)

// CartStoreReader adapts the in-memory cart store to the checkout port.
type CartStoreReader struct {
	store *cartapp.Store
}

func NewCartStoreReader(store *cartapp.Store) *CartStoreReader {
	return &CartStoreReader{store: store}
}

func (r *CartStoreReader) Lines(restaurantID string) []checkoutapp.CartLine {
	lines := r.store.Lines(restaurantID)

	out := make([]checkoutapp.CartLine, 0, len(lines))
	for _, l := range lines {
		cl := checkoutapp.CartLine{
			LineID:         l.ID,
			ItemID:         l.ItemID,
			Name:           l.ItemName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		}
		if l.Variant != nil {
			cl.VariantID = l.Variant.ID
			cl.VariantName = l.Variant.Name
		}
		for _, m := range l.Modifiers {
			cl.ModifierNames = append(cl.ModifierNames, m.Name)
			cl.ModifierSurchargeCents += m.PriceCents
		}
		out = append(out, cl)
	}
	return out
}
