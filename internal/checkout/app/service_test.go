package app

import (
	"context"
	"errors"
	"testing"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/domain"
)

type fakeCart struct {
	lines []CartLine
}

func (f fakeCart) Lines(restaurantID string) []CartLine { return f.lines }

type fakeCatalog struct {
	items map[string]CatalogItem
}

func (f fakeCatalog) GetItem(ctx context.Context, restaurantID, itemID string) (CatalogItem, error) {
	it, ok := f.items[itemID]
	if !ok {
		return CatalogItem{}, errors.New("not found")
	}
	return it, nil
}

func TestQuoteEmptyCart(t *testing.T) {
	svc := NewService(fakeCart{}, fakeCatalog{}, 0)

	_, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestQuotePricesCart(t *testing.T) {
	cart := fakeCart{lines: []CartLine{
		{
			LineID: "l1", ItemID: "noodles", Name: "Dan Dan Noodles",
			ModifierNames:          []string{"Chili Oil", "Peanuts"},
			ModifierSurchargeCents: 125,
			Quantity:               2,
			UnitPriceCents:         1424,
		},
		{
			LineID: "l2", ItemID: "bbt", VariantID: "bbt-l", Name: "Bubble Tea",
			VariantName: "Large", Quantity: 1, UnitPriceCents: 650,
		},
	}}
	catalog := fakeCatalog{items: map[string]CatalogItem{
		"noodles": {ID: "noodles", Name: "Dan Dan Noodles", Available: true, PriceCents: 1299},
		"bbt": {ID: "bbt", Name: "Bubble Tea", Available: true, Variants: []CatalogVariant{
			{ID: "bbt-s", PriceCents: 450},
			{ID: "bbt-l", PriceCents: 650},
		}},
	}}
	svc := NewService(cart, catalog, 4)

	quote, err := svc.Quote(context.Background(), "r1", QuoteInput{
		Method:           domain.MethodDelivery,
		TaxRate:          0.05,
		DeliveryFeeCents: 499,
		Tip:              domain.TipPercentage(15),
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if len(quote.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(quote.Lines))
	}
	if quote.Lines[0].LineTotalCents != 2848 {
		t.Fatalf("line total: %d", quote.Lines[0].LineTotalCents)
	}
	if quote.Lines[0].ModifierSummary != "Chili Oil, Peanuts" {
		t.Fatalf("modifier summary: %q", quote.Lines[0].ModifierSummary)
	}
	if quote.Pricing.SubtotalCents != 2848+650 {
		t.Fatalf("subtotal: %d", quote.Pricing.SubtotalCents)
	}
	if quote.Pricing.TotalCents != quote.Pricing.SubtotalCents+quote.Pricing.TaxCents+quote.Pricing.DeliveryFeeCents+quote.Pricing.TipCents {
		t.Fatalf("total is not the sum of its parts: %+v", quote.Pricing)
	}
}

func TestQuoteFailsOnUnavailableItem(t *testing.T) {
	cart := fakeCart{lines: []CartLine{
		{LineID: "l1", ItemID: "soldout", Name: "Specials", Quantity: 1, UnitPriceCents: 900},
	}}
	catalog := fakeCatalog{items: map[string]CatalogItem{
		"soldout": {ID: "soldout", Name: "Specials", Available: false, PriceCents: 900},
	}}
	svc := NewService(cart, catalog, 4)

	_, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup})
	if !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("expected ErrItemUnavailable, got %v", err)
	}
}

func TestQuoteFailsOnPriceDrift(t *testing.T) {
	cart := fakeCart{lines: []CartLine{
		{LineID: "l1", ItemID: "noodles", Name: "Dan Dan Noodles", Quantity: 1, UnitPriceCents: 100},
	}}
	catalog := fakeCatalog{items: map[string]CatalogItem{
		"noodles": {ID: "noodles", Name: "Dan Dan Noodles", Available: true, PriceCents: 999},
	}}
	svc := NewService(cart, catalog, 4)

	_, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup})
	if !errors.Is(err, ErrPriceChanged) {
		t.Fatalf("expected ErrPriceChanged, got %v", err)
	}

	t.Run("modifier surcharge counts toward the carted price", func(t *testing.T) {
		cart := fakeCart{lines: []CartLine{
			{
				LineID: "l1", ItemID: "noodles", Name: "Dan Dan Noodles",
				ModifierNames:          []string{"Chili Oil"},
				ModifierSurchargeCents: 75,
				Quantity:               1,
				UnitPriceCents:         1374,
			},
		}}
		catalog := fakeCatalog{items: map[string]CatalogItem{
			"noodles": {ID: "noodles", Name: "Dan Dan Noodles", Available: true, PriceCents: 1299},
		}}
		svc := NewService(cart, catalog, 4)

		if _, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup}); err != nil {
			t.Fatalf("matching snapshot must pass: %v", err)
		}
	})

	t.Run("variant price drift", func(t *testing.T) {
		cart := fakeCart{lines: []CartLine{
			{LineID: "l1", ItemID: "bbt", VariantID: "bbt-l", Name: "Bubble Tea", Quantity: 1, UnitPriceCents: 650},
		}}
		catalog := fakeCatalog{items: map[string]CatalogItem{
			"bbt": {ID: "bbt", Name: "Bubble Tea", Available: true, Variants: []CatalogVariant{
				{ID: "bbt-l", PriceCents: 700},
			}},
		}}
		svc := NewService(cart, catalog, 4)

		_, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup})
		if !errors.Is(err, ErrPriceChanged) {
			t.Fatalf("expected ErrPriceChanged, got %v", err)
		}
	})

	t.Run("carted variant removed upstream", func(t *testing.T) {
		cart := fakeCart{lines: []CartLine{
			{LineID: "l1", ItemID: "bbt", VariantID: "bbt-xl", Name: "Bubble Tea", Quantity: 1, UnitPriceCents: 800},
		}}
		catalog := fakeCatalog{items: map[string]CatalogItem{
			"bbt": {ID: "bbt", Name: "Bubble Tea", Available: true, Variants: []CatalogVariant{
				{ID: "bbt-l", PriceCents: 650},
			}},
		}}
		svc := NewService(cart, catalog, 4)

		_, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup})
		if !errors.Is(err, ErrItemUnavailable) {
			t.Fatalf("expected ErrItemUnavailable, got %v", err)
		}
	})
}

func TestQuoteFailsOnVanishedItem(t *testing.T) {
	cart := fakeCart{lines: []CartLine{
		{LineID: "l1", ItemID: "gone", Name: "Retired Dish", Quantity: 1, UnitPriceCents: 900},
	}}
	svc := NewService(cart, fakeCatalog{items: map[string]CatalogItem{}}, 4)

	if _, err := svc.Quote(context.Background(), "r1", QuoteInput{Method: domain.MethodPickup}); err == nil {
		t.Fatal("expected an error for a vanished item")
	}
}
