package domain

// Modifier is a single selectable add-on (e.g. "extra noodles").
type Modifier struct {
	ID         string
	Name       string
	PriceCents int64
}

// ModifierGroup is a named constraint set over selectable modifiers.
// MaxAllowed <= 0 means unbounded.
type ModifierGroup struct {
	ID          string
	Name        string
	MinRequired int
	MaxAllowed  int
	Modifiers   []Modifier
}

// Bounded reports whether the group caps how many modifiers can be picked.
func (g ModifierGroup) Bounded() bool {
	return g.MaxAllowed > 0
}

// Item is one purchasable catalog entity. Records with a non-empty Variants
// list are display aggregates: the row the menu shows, with the actual
// purchasable size/configuration children underneath.
type Item struct {
	ID              string
	Name            string
	NameZH          string
	AlternateName   string
	Categories      []string
	PriceCents      int64
	VariantGroupKey string
	Variants        []Item
	ModifierGroups  []ModifierGroup
	Available       bool

	// Set by the normalizer, zero-valued on raw records.
	DirectAddAllowed bool
	MinPriceCents    int64
	MaxPriceCents    int64
	MinMaxDisplay    bool
}

// HasVariants reports whether this record is a variant parent.
func (it Item) HasVariants() bool {
	return len(it.Variants) > 0
}

// PrimaryCategory is the category the item is displayed under. Membership is
// many-to-many but display groups by the first one.
func (it Item) PrimaryCategory() string {
	if len(it.Categories) == 0 {
		return ""
	}
	return it.Categories[0]
}

// CategoryGroup is a derived display grouping, never persisted. Items keep
// the source catalog's order. Localized category labels come from the app's
// static string tables, not from the catalog payload.
type CategoryGroup struct {
	Name  string
	Items []Item
}
