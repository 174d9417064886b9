package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	cartapp "github.com/hoterry/whatsdish-mobile-sub001/internal/cart/app"
	cartdomain "github.com/hoterry/whatsdish-mobile-sub001/internal/cart/domain"
	catalogapp "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/app"
	catalogdomain "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
	checkoutapp "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/app"
	checkoutdomain "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/domain"
	orderapp "github.com/hoterry/whatsdish-mobile-sub001/internal/order/app"
	orderdomain "github.com/hoterry/whatsdish-mobile-sub001/internal/order/domain"
)

// HTTPHandler wires the ordering core to the mobile client's REST surface.
// The order service may be nil when the order database is not configured;
// submission then answers 503 while menu, cart and quote keep working.
type HTTPHandler struct {
	catalog  *catalogapp.Service
	cart     *cartapp.Store
	checkout *checkoutapp.Service
	orders   *orderapp.Service
	validate *validator.Validate
	log      *slog.Logger
}

func NewHTTPHandler(catalog *catalogapp.Service, cart *cartapp.Store, checkout *checkoutapp.Service, orders *orderapp.Service, log *slog.Logger) *HTTPHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPHandler{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		validate: validator.New(),
		log:      log,
	}
}

func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/restaurants/{restaurantID}", func(r chi.Router) {
		r.Get("/menu", h.GetMenu)
		r.Post("/items/{itemID}/selection", h.ToggleSelection)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{lineID}", h.SetCartItemQuantity)
			r.Delete("/items/{lineID}", h.RemoveCartItem)
		})

		r.Post("/checkout/quote", h.QuoteOrder)
		r.Post("/orders", h.SubmitOrder)
	})
}

// --- Menu ---

func (h *HTTPHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")

	groups, err := h.catalog.GetMenu(r.Context(), restaurantID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, menuResponse(groups))
}

// --- Selection ---

type toggleInput struct {
	GroupID             string   `json:"group_id" validate:"required"`
	ModifierID          string   `json:"modifier_id" validate:"required"`
	SelectedModifierIDs []string `json:"selected_modifier_ids"`
}

type toggleResponse struct {
	SelectedModifierIDs []string `json:"selected_modifier_ids"`
	Rejected            bool     `json:"rejected"`
	Reason              string   `json:"reason,omitempty"`
}

// ToggleSelection applies one modifier tap for a thin client and returns the
// resulting selection. A rejected toggle (minimum not met) is a 200 with the
// unchanged selection and a reason; the client surfaces it as feedback.
func (h *HTTPHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")
	itemID := chi.URLParam(r, "itemID")

	var in toggleInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	item, err := h.catalog.FindItem(r.Context(), restaurantID, itemID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	group, modifier, ok := findGroupModifier(item, in.GroupID, in.ModifierID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown modifier group or modifier")
		return
	}

	sel, err := resolveSelection(item, in.SelectedModifierIDs)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	next, err := catalogapp.Toggle(group, modifier, sel)
	if err != nil {
		if errors.Is(err, catalogapp.ErrMinimumNotMet) {
			respondWithJSON(w, http.StatusOK, toggleResponse{
				SelectedModifierIDs: selectionIDs(sel),
				Rejected:            true,
				Reason:              "minimum_not_met",
			})
			return
		}
		h.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toggleResponse{SelectedModifierIDs: selectionIDs(next)})
}

// --- Cart ---

type addCartItemInput struct {
	ItemID      string   `json:"item_id" validate:"required"`
	VariantID   string   `json:"variant_id"`
	ModifierIDs []string `json:"modifier_ids"`
	Quantity    int32    `json:"quantity" validate:"gte=0"`
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")

	var in addCartItemInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	item, err := h.catalog.FindItem(r.Context(), restaurantID, in.ItemID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if !item.Available {
		respondWithError(w, http.StatusConflict, "item is not available")
		return
	}

	var variant *cartdomain.Variant
	if item.HasVariants() {
		v, ok := findVariant(item, in.VariantID)
		if !ok {
			respondWithError(w, http.StatusUnprocessableEntity, "item requires a variant selection")
			return
		}
		variant = &cartdomain.Variant{ID: v.ID, Name: v.Name, PriceCents: v.PriceCents}
	} else if !item.DirectAddAllowed {
		respondWithError(w, http.StatusUnprocessableEntity, "item cannot be added directly")
		return
	}

	sel, err := resolveSelection(item, in.ModifierIDs)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := catalogapp.ValidateForCheckout(item, sel); err != nil {
		var unmet *catalogapp.UnmetRequirementError
		if errors.As(err, &unmet) {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":        "unmet_requirement",
				"group_id":     unmet.GroupID,
				"group_name":   unmet.GroupName,
				"min_required": unmet.MinRequired,
				"actual_count": unmet.ActualCount,
			})
			return
		}
		h.respondError(w, err)
		return
	}

	modifiers := make([]cartdomain.Modifier, 0, len(sel))
	for _, m := range sel {
		modifiers = append(modifiers, cartdomain.Modifier{ID: m.ID, Name: m.Name, PriceCents: m.PriceCents})
	}

	line, err := h.cart.AddItem(restaurantID, cartapp.AddInput{
		ItemID:         item.ID,
		ItemName:       item.Name,
		BasePriceCents: item.PriceCents,
		Variant:        variant,
		Modifiers:      modifiers,
		Quantity:       in.Quantity,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, lineResponse(line))
}

type setQuantityInput struct {
	Quantity int32 `json:"quantity" validate:"gte=0"`
}

func (h *HTTPHandler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")
	lineID := chi.URLParam(r, "lineID")

	var in setQuantityInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	if err := h.cart.SetQuantity(restaurantID, lineID, in.Quantity); err != nil {
		h.respondError(w, err)
		return
	}
	h.GetCart(w, r)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")
	lineID := chi.URLParam(r, "lineID")

	if err := h.cart.RemoveLine(restaurantID, lineID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")

	lines := h.cart.Lines(restaurantID)
	out := make([]lineBody, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineResponse(l))
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"restaurant_id":  restaurantID,
		"lines":          out,
		"item_count":     h.cart.ItemCount(restaurantID),
		"subtotal_cents": h.cart.SubtotalCents(restaurantID),
	})
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(chi.URLParam(r, "restaurantID"))
	w.WriteHeader(http.StatusNoContent)
}

// --- Checkout ---

type quoteInput struct {
	DeliveryMethod   string   `json:"delivery_method" validate:"required,oneof=pickup delivery"`
	TaxRate          float64  `json:"tax_rate" validate:"gte=0"`
	DeliveryFeeCents int64    `json:"delivery_fee_cents" validate:"gte=0"`
	TipPercentage    *float64 `json:"tip_percentage"`
	TipFixedCents    *int64   `json:"tip_fixed_cents"`
}

// tipSpec enforces the two mutually exclusive tip modes at the API edge.
func (in quoteInput) tipSpec() (checkoutdomain.TipSpec, error) {
	if in.TipPercentage != nil && in.TipFixedCents != nil {
		return checkoutdomain.TipSpec{}, errors.New("tip_percentage and tip_fixed_cents are mutually exclusive")
	}
	if in.TipPercentage != nil {
		return checkoutdomain.TipPercentage(*in.TipPercentage), nil
	}
	if in.TipFixedCents != nil {
		return checkoutdomain.TipFixed(*in.TipFixedCents), nil
	}
	return checkoutdomain.TipNone(), nil
}

func (h *HTTPHandler) QuoteOrder(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantID")

	var in quoteInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	tip, err := in.tipSpec()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.checkout.Quote(r.Context(), restaurantID, checkoutapp.QuoteInput{
		Method:           checkoutdomain.DeliveryMethod(in.DeliveryMethod),
		TaxRate:          in.TaxRate,
		DeliveryFeeCents: in.DeliveryFeeCents,
		Tip:              tip,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

// --- Orders ---

type submitOrderInput struct {
	UserID string     `json:"user_id"`
	Quote  quoteInput `json:"quote" validate:"required"`
}

// SubmitOrder re-quotes the cart server-side and files the order; the client
// never sends prices, only the checkout options it chose.
func (h *HTTPHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		respondWithError(w, http.StatusServiceUnavailable, "order submission is not configured")
		return
	}

	restaurantID := chi.URLParam(r, "restaurantID")

	var in submitOrderInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	tip, err := in.Quote.tipSpec()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.checkout.Quote(r.Context(), restaurantID, checkoutapp.QuoteInput{
		Method:           checkoutdomain.DeliveryMethod(in.Quote.DeliveryMethod),
		TaxRate:          in.Quote.TaxRate,
		DeliveryFeeCents: in.Quote.DeliveryFeeCents,
		Tip:              tip,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	req := orderdomain.SubmitRequest{
		RestaurantID:     restaurantID,
		UserID:           in.UserID,
		DeliveryMethod:   string(quote.Method),
		SubtotalCents:    quote.Pricing.SubtotalCents,
		DeliveryFeeCents: quote.Pricing.DeliveryFeeCents,
		TaxCents:         quote.Pricing.TaxCents,
		TipCents:         quote.Pricing.TipCents,
		TotalCents:       quote.Pricing.TotalCents,
	}
	for _, l := range quote.Lines {
		req.Items = append(req.Items, orderdomain.SubmitItem{
			ItemID:          l.ItemID,
			Name:            l.Name,
			VariantName:     l.VariantName,
			ModifierSummary: l.ModifierSummary,
			UnitPriceCents:  l.UnitPriceCents,
			Quantity:        l.Quantity,
		})
	}

	resp, err := h.orders.SubmitOrder(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// --- helpers ---

func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func findGroupModifier(item catalogdomain.Item, groupID, modifierID string) (catalogdomain.ModifierGroup, catalogdomain.Modifier, bool) {
	for _, g := range item.ModifierGroups {
		if g.ID != groupID {
			continue
		}
		for _, m := range g.Modifiers {
			if m.ID == modifierID {
				return g, m, true
			}
		}
	}
	return catalogdomain.ModifierGroup{}, catalogdomain.Modifier{}, false
}

func findVariant(item catalogdomain.Item, variantID string) (catalogdomain.Item, bool) {
	for _, v := range item.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return catalogdomain.Item{}, false
}

// resolveSelection maps modifier ids back to catalog modifiers, preserving
// the order the client picked them in.
func resolveSelection(item catalogdomain.Item, modifierIDs []string) (catalogapp.Selection, error) {
	sel := make(catalogapp.Selection, 0, len(modifierIDs))
	for _, id := range modifierIDs {
		found := false
		for _, g := range item.ModifierGroups {
			for _, m := range g.Modifiers {
				if m.ID == id {
					sel = append(sel, m)
					found = true
				}
			}
		}
		if !found {
			return nil, errors.New("unknown modifier id: " + id)
		}
	}
	return sel, nil
}

func selectionIDs(sel catalogapp.Selection) []string {
	ids := make([]string, 0, len(sel))
	for _, m := range sel {
		ids = append(ids, m.ID)
	}
	return ids
}

type lineBody struct {
	ID             string   `json:"id"`
	ItemID         string   `json:"item_id"`
	ItemName       string   `json:"item_name"`
	VariantName    string   `json:"variant_name,omitempty"`
	ModifierNames  []string `json:"modifier_names,omitempty"`
	Quantity       int32    `json:"quantity"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	LineTotalCents int64    `json:"line_total_cents"`
}

func lineResponse(l cartdomain.Line) lineBody {
	b := lineBody{
		ID:             l.ID,
		ItemID:         l.ItemID,
		ItemName:       l.ItemName,
		Quantity:       l.Quantity,
		UnitPriceCents: l.UnitPriceCents,
		LineTotalCents: l.TotalCents(),
	}
	if l.Variant != nil {
		b.VariantName = l.Variant.Name
	}
	for _, m := range l.Modifiers {
		b.ModifierNames = append(b.ModifierNames, m.Name)
	}
	return b
}

type menuItemBody struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NameZH           string `json:"name_zh,omitempty"`
	PriceCents       int64  `json:"price_cents"`
	MinPriceCents    int64  `json:"min_price_cents"`
	MaxPriceCents    int64  `json:"max_price_cents"`
	MinMaxDisplay    bool   `json:"min_max_display"`
	DirectAddAllowed bool   `json:"direct_add_allowed"`
	Available        bool   `json:"available"`
	VariantCount     int    `json:"variant_count"`
}

type menuGroupBody struct {
	Category string         `json:"category"`
	Items    []menuItemBody `json:"items"`
}

func menuResponse(groups []catalogdomain.CategoryGroup) []menuGroupBody {
	out := make([]menuGroupBody, 0, len(groups))
	for _, g := range groups {
		gb := menuGroupBody{Category: g.Name, Items: make([]menuItemBody, 0, len(g.Items))}
		for _, it := range g.Items {
			gb.Items = append(gb.Items, menuItemBody{
				ID:               it.ID,
				Name:             it.Name,
				NameZH:           it.NameZH,
				PriceCents:       it.PriceCents,
				MinPriceCents:    it.MinPriceCents,
				MaxPriceCents:    it.MaxPriceCents,
				MinMaxDisplay:    it.MinMaxDisplay,
				DirectAddAllowed: it.DirectAddAllowed,
				Available:        it.Available,
				VariantCount:     len(it.Variants),
			})
		}
		out = append(out, gb)
	}
	return out
}
