package domain

import (
	"sort"
	"strings"
)

// Variant is the purchasable size/configuration the user picked for a line.
type Variant struct {
	ID         string
	Name       string
	PriceCents int64
}

// Modifier is a selected add-on snapshotted onto the line.
type Modifier struct {
	ID         string
	Name       string
	PriceCents int64
}

// Line is one distinct purchasable configuration plus quantity.
type Line struct {
	ID             string
	RestaurantID   string
	ItemID         string
	ItemName       string
	Variant        *Variant
	Modifiers      []Modifier
	Quantity       int32
	UnitPriceCents int64
}

// TotalCents is the line's contribution to the cart subtotal.
func (l Line) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// ConfigKey derives the deterministic identity of a line's configuration.
// Re-adding an identical configuration matches an existing line (and bumps
// its quantity) instead of creating a duplicate; the line ID itself stays a
// random nonce so separate lines remain independently removable.
func (l Line) ConfigKey() string {
	return ConfigKey(l.ItemID, l.Variant, l.Modifiers)
}

func ConfigKey(itemID string, variant *Variant, modifiers []Modifier) string {
	variantID := "none"
	if variant != nil {
		variantID = variant.ID
	}

	ids := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)

	return itemID + "|" + variantID + "|" + strings.Join(ids, ",")
}
