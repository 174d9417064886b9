package app

import (
	"errors"
	"fmt"
	"math"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/domain"
)

// ErrInvalidPricingInput flags inputs the UI should never produce: negative
// amounts, out-of-range percentages. The engine fails loudly instead of
// clamping.
var ErrInvalidPricingInput = errors.New("invalid pricing input")

// PricingInput carries everything ComputeOrderPricing needs. TaxRate is a
// decimal fraction (0.05 for 5%); the tip percentage is in whole percent.
type PricingInput struct {
	SubtotalCents    int64
	Method           domain.DeliveryMethod
	TaxRate          float64
	DeliveryFeeCents int64
	Tip              domain.TipSpec
}

// ComputeOrderPricing derives the full money breakdown for a cart.
//
// Tax is rounded half-up on the subtotal. The delivery fee applies only to
// delivery orders. A percentage tip is taken on subtotal + tax + delivery
// fee, rounded half-up; a fixed tip is used verbatim.
func ComputeOrderPricing(in PricingInput) (domain.OrderPricing, error) {
	if in.SubtotalCents < 0 {
		return domain.OrderPricing{}, fmt.Errorf("%w: negative subtotal %d", ErrInvalidPricingInput, in.SubtotalCents)
	}
	if in.TaxRate < 0 {
		return domain.OrderPricing{}, fmt.Errorf("%w: negative tax rate %v", ErrInvalidPricingInput, in.TaxRate)
	}
	if in.DeliveryFeeCents < 0 {
		return domain.OrderPricing{}, fmt.Errorf("%w: negative delivery fee %d", ErrInvalidPricingInput, in.DeliveryFeeCents)
	}
	if !in.Method.Valid() {
		return domain.OrderPricing{}, fmt.Errorf("%w: delivery method %q", ErrInvalidPricingInput, in.Method)
	}

	tax := roundHalfUpCents(float64(in.SubtotalCents) * in.TaxRate)

	var deliveryFee int64
	if in.Method == domain.MethodDelivery {
		deliveryFee = in.DeliveryFeeCents
	}

	tip, err := tipCents(in.Tip, in.SubtotalCents+tax+deliveryFee)
	if err != nil {
		return domain.OrderPricing{}, err
	}

	return domain.OrderPricing{
		SubtotalCents:    in.SubtotalCents,
		DeliveryFeeCents: deliveryFee,
		TaxCents:         tax,
		TipCents:         tip,
		TotalCents:       in.SubtotalCents + tax + deliveryFee + tip,
	}, nil
}

func tipCents(tip domain.TipSpec, baseCents int64) (int64, error) {
	switch tip.Mode() {
	case domain.TipModeNone:
		return 0, nil
	case domain.TipModePercentage:
		pct := tip.Percentage()
		if pct < 0 || pct > 100 {
			return 0, fmt.Errorf("%w: tip percentage %v", ErrInvalidPricingInput, pct)
		}
		return roundHalfUpCents(float64(baseCents) * pct / 100), nil
	case domain.TipModeFixed:
		if tip.FixedCents() < 0 {
			return 0, fmt.Errorf("%w: fixed tip %d", ErrInvalidPricingInput, tip.FixedCents())
		}
		return tip.FixedCents(), nil
	default:
		return 0, fmt.Errorf("%w: tip mode %q", ErrInvalidPricingInput, tip.Mode())
	}
}

// roundHalfUpCents rounds to the nearest cent with exact halves going up,
// deterministically (math.Round half-away-from-zero equals half-up for the
// non-negative amounts handled here).
func roundHalfUpCents(v float64) int64 {
	return int64(math.Round(v))
}
