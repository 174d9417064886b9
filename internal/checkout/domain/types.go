package domain

// DeliveryMethod selects how the order reaches the customer.
type DeliveryMethod string

const (
	MethodPickup   DeliveryMethod = "pickup"
	MethodDelivery DeliveryMethod = "delivery"
)

func (m DeliveryMethod) Valid() bool {
	return m == MethodPickup || m == MethodDelivery
}

// TipMode enumerates the mutually exclusive tip states.
type TipMode string

const (
	TipModeNone       TipMode = "none"
	TipModePercentage TipMode = "percentage"
	TipModeFixed      TipMode = "fixed"
)

// TipSpec is the user's gratuity choice. Exactly one mode is active at a
// time; the constructors are the only way to set one, so choosing a
// percentage clears any custom amount and vice versa.
type TipSpec struct {
	mode       TipMode
	percentage float64
	fixedCents int64
}

func TipNone() TipSpec {
	return TipSpec{mode: TipModeNone}
}

func TipPercentage(pct float64) TipSpec {
	return TipSpec{mode: TipModePercentage, percentage: pct}
}

func TipFixed(cents int64) TipSpec {
	return TipSpec{mode: TipModeFixed, fixedCents: cents}
}

func (t TipSpec) Mode() TipMode {
	if t.mode == "" {
		return TipModeNone
	}
	return t.mode
}

func (t TipSpec) Percentage() float64 { return t.percentage }
func (t TipSpec) FixedCents() int64   { return t.fixedCents }

// OrderPricing is the derived money breakdown for a cart. It is recomputed
// on every cart or option change, never stored on its own.
type OrderPricing struct {
	SubtotalCents    int64 `json:"subtotal_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	TaxCents         int64 `json:"tax_cents"`
	TipCents         int64 `json:"tip_cents"`
	TotalCents       int64 `json:"total_cents"`
}

// QuoteLine is a priced cart line as presented on the order summary.
type QuoteLine struct {
	LineID          string `json:"line_id"`
	ItemID          string `json:"item_id"`
	Name            string `json:"name"`
	VariantName     string `json:"variant_name,omitempty"`
	ModifierSummary string `json:"modifier_summary,omitempty"`
	Quantity        int32  `json:"quantity"`
	UnitPriceCents  int64  `json:"unit_price_cents"`
	LineTotalCents  int64  `json:"line_total_cents"`
}

// Quote is the full order summary shown before submission.
type Quote struct {
	RestaurantID string         `json:"restaurant_id"`
	Method       DeliveryMethod `json:"delivery_method"`
	Lines        []QuoteLine    `json:"lines"`
	Pricing      OrderPricing   `json:"pricing"`
}
