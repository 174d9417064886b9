package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/domain"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemUnavailable = errors.New("item no longer available")
	ErrPriceChanged    = errors.New("item price changed since it was carted")
)

// CartReader exposes the lines of one restaurant's cart.
type CartReader interface {
	Lines(restaurantID string) []CartLine
}

// CartLine is a cart line as the checkout sees it. UnitPriceCents is the
// snapshot taken at add time; VariantID and ModifierSurchargeCents let the
// quote recompute what that snapshot should be against the live catalog.
type CartLine struct {
	LineID                 string
	ItemID                 string
	VariantID              string
	Name                   string
	VariantName            string
	ModifierNames          []string
	ModifierSurchargeCents int64
	Quantity               int32
	UnitPriceCents         int64
}

// CatalogReader resolves a catalog item by id for revalidation.
type CatalogReader interface {
	GetItem(ctx context.Context, restaurantID, itemID string) (CatalogItem, error)
}

type CatalogItem struct {
	ID         string
	Name       string
	Available  bool
	PriceCents int64
	Variants   []CatalogVariant
}

type CatalogVariant struct {
	ID         string
	PriceCents int64
}

type Service struct {
	cart    CartReader
	catalog CatalogReader

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &Service{
		cart:          cart,
		catalog:       catalog,
		maxConcurrent: maxConcurrent,
	}
}

// QuoteInput is the checkout configuration chosen on the summary screen.
type QuoteInput struct {
	Method           domain.DeliveryMethod
	TaxRate          float64
	DeliveryFeeCents int64
	Tip              domain.TipSpec
}

// Quote revalidates the cart against the live catalog and prices the order.
// Each line's item is re-fetched concurrently; a line whose item vanished,
// went unavailable, or no longer prices out to the carted snapshot fails the
// whole quote so the UI can prompt a cart edit.
func (s *Service) Quote(ctx context.Context, restaurantID string, in QuoteInput) (domain.Quote, error) {
	cartLines := s.cart.Lines(restaurantID)
	if len(cartLines) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(cartLines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range cartLines {
		idx := idx
		g.Go(func() error {
			cl := cartLines[idx]
			if cl.Quantity <= 0 {
				return fmt.Errorf("line %s: quantity must be positive, got %d", cl.LineID, cl.Quantity)
			}

			item, err := s.catalog.GetItem(ctx, restaurantID, cl.ItemID)
			if err != nil {
				return fmt.Errorf("revalidate item %s: %w", cl.ItemID, err)
			}
			if !item.Available {
				return fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
			}

			liveUnit, err := liveUnitPrice(item, cl)
			if err != nil {
				return err
			}
			if liveUnit != cl.UnitPriceCents {
				return fmt.Errorf("%w: %s carted at %d, now %d",
					ErrPriceChanged, item.Name, cl.UnitPriceCents, liveUnit)
			}

			lines[idx] = domain.QuoteLine{
				LineID:          cl.LineID,
				ItemID:          cl.ItemID,
				Name:            cl.Name,
				VariantName:     cl.VariantName,
				ModifierSummary: strings.Join(cl.ModifierNames, ", "),
				Quantity:        cl.Quantity,
				UnitPriceCents:  cl.UnitPriceCents,
				LineTotalCents:  cl.UnitPriceCents * int64(cl.Quantity),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotalCents
	}

	pricing, err := ComputeOrderPricing(PricingInput{
		SubtotalCents:    subtotal,
		Method:           in.Method,
		TaxRate:          in.TaxRate,
		DeliveryFeeCents: in.DeliveryFeeCents,
		Tip:              in.Tip,
	})
	if err != nil {
		return domain.Quote{}, err
	}

	return domain.Quote{
		RestaurantID: restaurantID,
		Method:       in.Method,
		Lines:        lines,
		Pricing:      pricing,
	}, nil
}

// liveUnitPrice recomputes the line's unit price from the live catalog: the
// item's (or selected variant's) current base plus the carted modifier
// surcharge.
func liveUnitPrice(item CatalogItem, cl CartLine) (int64, error) {
	base := item.PriceCents
	if cl.VariantID != "" {
		found := false
		for _, v := range item.Variants {
			if v.ID == cl.VariantID {
				base = v.PriceCents
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: variant %s of %s", ErrItemUnavailable, cl.VariantID, item.Name)
		}
	}
	return base + cl.ModifierSurchargeCents, nil
}
