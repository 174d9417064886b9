package app

import (
	"errors"
	"fmt"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
)

var (
	// ErrMinimumNotMet rejects a toggle that would drop a group below its
	// required minimum. The selection is returned unchanged; callers surface
	// this as user feedback, not a failure.
	ErrMinimumNotMet = errors.New("selection below group minimum")

	ErrUnknownModifier = errors.New("modifier does not belong to group")
)

// UnmetRequirementError reports the first modifier group whose minimum is not
// satisfied at checkout time.
type UnmetRequirementError struct {
	GroupID     string
	GroupName   string
	MinRequired int
	ActualCount int
}

func (e *UnmetRequirementError) Error() string {
	return fmt.Sprintf("group %q requires at least %d selection(s), have %d",
		e.GroupName, e.MinRequired, e.ActualCount)
}

// Selection is the tentatively selected modifiers for one item, in the order
// the user picked them. Insertion order doubles as the eviction order.
type Selection []domain.Modifier

// Contains reports whether the modifier is currently selected.
func (sel Selection) Contains(modifierID string) bool {
	for _, m := range sel {
		if m.ID == modifierID {
			return true
		}
	}
	return false
}

// PriceCents is the combined surcharge of the selection.
func (sel Selection) PriceCents() int64 {
	var total int64
	for _, m := range sel {
		total += m.PriceCents
	}
	return total
}

// countIn tallies how many selected modifiers belong to the given group.
func (sel Selection) countIn(group domain.ModifierGroup) int {
	n := 0
	for _, m := range sel {
		if groupHas(group, m.ID) {
			n++
		}
	}
	return n
}

func groupHas(group domain.ModifierGroup, modifierID string) bool {
	for _, m := range group.Modifiers {
		if m.ID == modifierID {
			return true
		}
	}
	return false
}

// Toggle flips one modifier within its group and returns the resulting
// selection.
//
// Deselecting below the group minimum is rejected (selection unchanged,
// ErrMinimumNotMet). Selecting while the group is at capacity evicts the
// oldest pick in that group rather than rejecting: the newest choice wins,
// matching the "choose up to N" stepper behavior in the app.
func Toggle(group domain.ModifierGroup, modifier domain.Modifier, sel Selection) (Selection, error) {
	if !groupHas(group, modifier.ID) {
		return sel, fmt.Errorf("%w: %s in group %s", ErrUnknownModifier, modifier.ID, group.ID)
	}

	if sel.Contains(modifier.ID) {
		if sel.countIn(group)-1 < group.MinRequired {
			return sel, fmt.Errorf("%w: group %s needs %d", ErrMinimumNotMet, group.ID, group.MinRequired)
		}
		out := make(Selection, 0, len(sel)-1)
		for _, m := range sel {
			if m.ID != modifier.ID {
				out = append(out, m)
			}
		}
		return out, nil
	}

	out := make(Selection, 0, len(sel)+1)
	if group.Bounded() && sel.countIn(group) >= group.MaxAllowed {
		evicted := false
		for _, m := range sel {
			if !evicted && groupHas(group, m.ID) {
				evicted = true
				continue
			}
			out = append(out, m)
		}
	} else {
		out = append(out, sel...)
	}

	return append(out, modifier), nil
}

// ValidateForCheckout checks every modifier group on the item against the
// selection. It fails on the first group outside its cardinality bounds;
// nil means the configuration is safe to add to the cart.
func ValidateForCheckout(item domain.Item, sel Selection) error {
	for _, g := range item.ModifierGroups {
		count := sel.countIn(g)
		if count < g.MinRequired {
			return &UnmetRequirementError{
				GroupID:     g.ID,
				GroupName:   g.Name,
				MinRequired: g.MinRequired,
				ActualCount: count,
			}
		}
		if g.Bounded() && count > g.MaxAllowed {
			return &UnmetRequirementError{
				GroupID:     g.ID,
				GroupName:   g.Name,
				MinRequired: g.MinRequired,
				ActualCount: count,
			}
		}
	}
	return nil
}
