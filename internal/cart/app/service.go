package app

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/cart/domain"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrLineNotFound    = errors.New("cart line not found")
)

// MaxLineQuantity caps a single line. Anything past this is a fat-finger or
// an abuse pattern, not a meal.
const MaxLineQuantity = 99

// AddInput describes a configured item headed for the cart. The caller has
// already validated modifier selections against the catalog.
type AddInput struct {
	ItemID         string
	ItemName       string
	BasePriceCents int64
	Variant        *domain.Variant
	Modifiers      []domain.Modifier
	Quantity       int32
}

// Store keeps one independent cart per restaurant, in memory. Carts never
// merge or share lines across restaurants, and the store performs no I/O;
// persistence and sync belong to outer collaborators.
type Store struct {
	mu    sync.Mutex
	carts map[string][]domain.Line
}

func NewStore() *Store {
	return &Store{carts: make(map[string][]domain.Line)}
}

// AddItem creates a line for the configuration, or bumps the quantity of an
// existing line with the identical configuration.
func (s *Store) AddItem(restaurantID string, in AddInput) (domain.Line, error) {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 || qty > MaxLineQuantity {
		return domain.Line{}, ErrInvalidQuantity
	}

	unit := in.BasePriceCents
	if in.Variant != nil {
		unit = in.Variant.PriceCents
	}
	for _, m := range in.Modifiers {
		unit += m.PriceCents
	}

	key := domain.ConfigKey(in.ItemID, in.Variant, in.Modifiers)

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[restaurantID]
	for i, l := range lines {
		if l.ConfigKey() == key {
			if l.Quantity+qty > MaxLineQuantity {
				return domain.Line{}, ErrInvalidQuantity
			}
			lines[i].Quantity += qty
			return lines[i], nil
		}
	}

	line := domain.Line{
		ID:             uuid.NewString(),
		RestaurantID:   restaurantID,
		ItemID:         in.ItemID,
		ItemName:       in.ItemName,
		Variant:        in.Variant,
		Modifiers:      in.Modifiers,
		Quantity:       qty,
		UnitPriceCents: unit,
	}
	s.carts[restaurantID] = append(lines, line)
	return line, nil
}

// RemoveLine deletes the whole line regardless of its quantity.
func (s *Store) RemoveLine(restaurantID, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(restaurantID, lineID)
}

// SetQuantity updates a line's quantity. Zero removes the line.
func (s *Store) SetQuantity(restaurantID, lineID string, quantity int32) error {
	if quantity < 0 || quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity == 0 {
		return s.removeLocked(restaurantID, lineID)
	}

	for i, l := range s.carts[restaurantID] {
		if l.ID == lineID {
			s.carts[restaurantID][i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

// Lines returns a copy of the restaurant's cart in insertion order.
func (s *Store) Lines(restaurantID string) []domain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[restaurantID]
	out := make([]domain.Line, len(lines))
	copy(out, lines)
	return out
}

// ItemCount sums quantities across the restaurant's lines.
func (s *Store) ItemCount(restaurantID string) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int32
	for _, l := range s.carts[restaurantID] {
		n += l.Quantity
	}
	return n
}

// SubtotalCents sums unit price times quantity across the restaurant's lines.
func (s *Store) SubtotalCents(restaurantID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, l := range s.carts[restaurantID] {
		total += l.TotalCents()
	}
	return total
}

// Clear empties that restaurant's cart only, e.g. after order submit.
func (s *Store) Clear(restaurantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, restaurantID)
}

func (s *Store) removeLocked(restaurantID, lineID string) error {
	lines := s.carts[restaurantID]
	for i, l := range lines {
		if l.ID == lineID {
			s.carts[restaurantID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}
