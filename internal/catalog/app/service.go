package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
)

var (
	ErrMalformedCatalog = errors.New("malformed catalog payload")
	ErrNotFound         = errors.New("not found")
)

// OtherCategory collects items the catalog tags with no category at all.
const OtherCategory = "Other"

type Service struct {
	fetcher CatalogFetcher
	cache   *MenuCache
	log     *slog.Logger
}

func NewService(fetcher CatalogFetcher, cache *MenuCache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		log:     log,
	}
}

// GetMenu returns the normalized menu for a restaurant, fetching from the
// upstream catalog on cache miss.
func (s *Service) GetMenu(ctx context.Context, restaurantID string) ([]domain.CategoryGroup, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, fmt.Errorf("%w: empty restaurant id", ErrMalformedCatalog)
	}

	if s.cache != nil {
		if groups, ok := s.cache.get(restaurantID); ok {
			return groups, nil
		}
	}

	items, err := s.fetcher.FetchMenu(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("fetch menu for %s: %w", restaurantID, err)
	}

	groups, err := s.Normalize(items)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.set(restaurantID, groups)
	}
	return groups, nil
}

// Normalize turns the flat catalog array into display-ready category groups.
//
// Category order is first-seen order from the input; item order within a
// category is input order. Orphan variant shells and garbage records are
// skipped individually so one bad record never blanks the whole menu.
func (s *Service) Normalize(items []domain.Item) ([]domain.CategoryGroup, error) {
	if items == nil {
		return []domain.CategoryGroup{}, fmt.Errorf("%w: missing item array", ErrMalformedCatalog)
	}

	order := make([]string, 0, 8)
	byCategory := make(map[string][]domain.Item)

	for _, it := range items {
		if it.ID == "" || displayName(it) == "" {
			s.log.Warn("skipping catalog record with missing id or name", slog.String("id", it.ID))
			continue
		}
		if isOrphanVariantShell(it) {
			// Lookup placeholder for a variant child; never a browsable row.
			s.log.Debug("skipping orphan variant shell", slog.String("id", it.ID))
			continue
		}

		row := decorate(it)

		cat := row.PrimaryCategory()
		if cat == "" {
			cat = OtherCategory
		}
		if _, seen := byCategory[cat]; !seen {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], row)
	}

	// "Other" always renders last, wherever it was first seen.
	groups := make([]domain.CategoryGroup, 0, len(order))
	var other *domain.CategoryGroup
	for _, cat := range order {
		g := domain.CategoryGroup{Name: cat, Items: byCategory[cat]}
		if cat == OtherCategory {
			other = &g
			continue
		}
		groups = append(groups, g)
	}
	if other != nil {
		groups = append(groups, *other)
	}

	return groups, nil
}

// FindItem looks an item up by id in the normalized menu, descending into
// variant children.
func (s *Service) FindItem(ctx context.Context, restaurantID, itemID string) (domain.Item, error) {
	groups, err := s.GetMenu(ctx, restaurantID)
	if err != nil {
		return domain.Item{}, err
	}

	for _, g := range groups {
		for _, it := range g.Items {
			if it.ID == itemID {
				return it, nil
			}
			for _, v := range it.Variants {
				if v.ID == itemID {
					child := decorateVariant(v, it)
					return child, nil
				}
			}
		}
	}
	return domain.Item{}, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
}

// isOrphanVariantShell detects flat records that declare membership in a
// variant group but carry no children of their own. They are the parent's
// children re-listed at the top level as lookup placeholders; showing them
// would duplicate the child as a standalone non-purchasable row.
func isOrphanVariantShell(it domain.Item) bool {
	return it.VariantGroupKey != "" && !it.HasVariants()
}

// decorate fills the derived display fields on a browsable row.
func decorate(it domain.Item) domain.Item {
	if it.HasVariants() {
		min, max := it.Variants[0].PriceCents, it.Variants[0].PriceCents
		for _, v := range it.Variants[1:] {
			if v.PriceCents < min {
				min = v.PriceCents
			}
			if v.PriceCents > max {
				max = v.PriceCents
			}
		}
		it.DirectAddAllowed = false
		it.MinPriceCents = min
		it.MaxPriceCents = max
		it.MinMaxDisplay = min != max
		return it
	}

	it.DirectAddAllowed = true
	it.MinPriceCents = it.PriceCents
	it.MaxPriceCents = it.PriceCents
	it.MinMaxDisplay = false
	return it
}

// decorateVariant makes a leaf variant standalone-addable, inheriting the
// parent's modifier groups when it declares none of its own.
func decorateVariant(v, parent domain.Item) domain.Item {
	v.DirectAddAllowed = true
	v.MinPriceCents = v.PriceCents
	v.MaxPriceCents = v.PriceCents
	if len(v.ModifierGroups) == 0 {
		v.ModifierGroups = parent.ModifierGroups
	}
	return v
}

func displayName(it domain.Item) string {
	if it.Name != "" {
		return it.Name
	}
	if it.AlternateName != "" {
		return it.AlternateName
	}
	return it.NameZH
}
