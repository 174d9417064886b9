package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/hoterry/whatsdish-mobile-sub001/internal/cart/app"
	catalogapp "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/app"
	catalogdomain "github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
	checkoutapp "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/app"
	checkoutadapter "github.com/hoterry/whatsdish-mobile-sub001/internal/checkout/infra/adapter"
)

type stubFetcher struct {
	items []catalogdomain.Item
}

func (s stubFetcher) FetchMenu(ctx context.Context, restaurantID string) ([]catalogdomain.Item, error) {
	return s.items, nil
}

func fixtureCatalog() []catalogdomain.Item {
	return []catalogdomain.Item{
		{
			ID:         "noodles",
			Name:       "Dan Dan Noodles",
			Categories: []string{"Mains"},
			PriceCents: 1299,
			Available:  true,
			ModifierGroups: []catalogdomain.ModifierGroup{
				{
					ID: "spice", Name: "Spice Level", MinRequired: 1, MaxAllowed: 1,
					Modifiers: []catalogdomain.Modifier{
						{ID: "mild", Name: "Mild"},
						{ID: "hot", Name: "Hot"},
					},
				},
				{
					ID: "addons", Name: "Add-ons", MaxAllowed: 2,
					Modifiers: []catalogdomain.Modifier{
						{ID: "chili", Name: "Chili Oil", PriceCents: 75},
						{ID: "peanuts", Name: "Peanuts", PriceCents: 50},
						{ID: "cilantro", Name: "Cilantro"},
					},
				},
			},
		},
		{
			ID:              "bbt",
			Name:            "Bubble Tea",
			Categories:      []string{"Drinks"},
			VariantGroupKey: "bbt-sizes",
			Available:       true,
			Variants: []catalogdomain.Item{
				{ID: "bbt-s", Name: "Small", PriceCents: 450},
				{ID: "bbt-l", Name: "Large", PriceCents: 650},
			},
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalogSvc := catalogapp.NewService(stubFetcher{items: fixtureCatalog()}, nil, nil)
	cartStore := cartapp.NewStore()
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartStoreReader(cartStore),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		4,
	)

	handler := NewHTTPHandler(catalogSvc, cartStore, checkoutSvc, nil, nil)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetMenu(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/restaurants/r1/menu")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var groups []struct {
		Category string `json:"category"`
		Items    []struct {
			ID               string `json:"id"`
			DirectAddAllowed bool   `json:"direct_add_allowed"`
			MinPriceCents    int64  `json:"min_price_cents"`
			MaxPriceCents    int64  `json:"max_price_cents"`
			MinMaxDisplay    bool   `json:"min_max_display"`
		} `json:"items"`
	}
	decodeBody(t, resp, &groups)

	require.Len(t, groups, 2)
	assert.Equal(t, "Mains", groups[0].Category)
	assert.Equal(t, "Drinks", groups[1].Category)

	bbt := groups[1].Items[0]
	assert.False(t, bbt.DirectAddAllowed)
	assert.True(t, bbt.MinMaxDisplay)
	assert.Equal(t, int64(450), bbt.MinPriceCents)
	assert.Equal(t, int64(650), bbt.MaxPriceCents)
}

func TestAddCartItemFlow(t *testing.T) {
	srv := newTestServer(t)
	addURL := srv.URL + "/api/v1/restaurants/r1/cart/items"

	body := map[string]any{
		"item_id":      "noodles",
		"modifier_ids": []string{"hot", "chili"},
		"quantity":     1,
	}

	resp := postJSON(t, addURL, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var line struct {
		ID             string `json:"id"`
		UnitPriceCents int64  `json:"unit_price_cents"`
		Quantity       int32  `json:"quantity"`
	}
	decodeBody(t, resp, &line)
	assert.Equal(t, int64(1299+75), line.UnitPriceCents)

	t.Run("identical re-add merges", func(t *testing.T) {
		resp := postJSON(t, addURL, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var merged struct {
			ID       string `json:"id"`
			Quantity int32  `json:"quantity"`
		}
		decodeBody(t, resp, &merged)
		assert.Equal(t, line.ID, merged.ID)
		assert.Equal(t, int32(2), merged.Quantity)
	})

	t.Run("cart summary", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/restaurants/r1/cart")
		require.NoError(t, err)

		var cart struct {
			ItemCount     int32 `json:"item_count"`
			SubtotalCents int64 `json:"subtotal_cents"`
		}
		decodeBody(t, resp, &cart)
		assert.Equal(t, int32(2), cart.ItemCount)
		assert.Equal(t, int64(2*(1299+75)), cart.SubtotalCents)
	})
}

func TestAddCartItemUnmetRequirement(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/cart/items", map[string]any{
		"item_id":      "noodles",
		"modifier_ids": []string{"chili"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Error       string `json:"error"`
		GroupID     string `json:"group_id"`
		MinRequired int    `json:"min_required"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "unmet_requirement", body.Error)
	assert.Equal(t, "spice", body.GroupID)
	assert.Equal(t, 1, body.MinRequired)
}

func TestAddVariantParentRequiresVariant(t *testing.T) {
	srv := newTestServer(t)
	addURL := srv.URL + "/api/v1/restaurants/r1/cart/items"

	resp := postJSON(t, addURL, map[string]any{"item_id": "bbt"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, addURL, map[string]any{"item_id": "bbt", "variant_id": "bbt-l"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var line struct {
		UnitPriceCents int64  `json:"unit_price_cents"`
		VariantName    string `json:"variant_name"`
	}
	decodeBody(t, resp, &line)
	assert.Equal(t, int64(650), line.UnitPriceCents)
	assert.Equal(t, "Large", line.VariantName)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	srv := newTestServer(t)
	addURL := srv.URL + "/api/v1/restaurants/r1/cart/items"

	resp := postJSON(t, addURL, map[string]any{"item_id": "bbt", "variant_id": "bbt-s"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var line struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &line)

	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/restaurants/r1/cart/items/%s", srv.URL, line.ID),
		bytes.NewReader([]byte(`{"quantity": 0}`)))
	require.NoError(t, err)
	patchResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	var cart struct {
		Lines         []any `json:"lines"`
		SubtotalCents int64 `json:"subtotal_cents"`
	}
	decodeBody(t, patchResp, &cart)
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.SubtotalCents)
}

func TestToggleSelectionEviction(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/items/noodles/selection", map[string]any{
		"group_id":              "addons",
		"modifier_id":           "cilantro",
		"selected_modifier_ids": []string{"chili", "peanuts"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		SelectedModifierIDs []string `json:"selected_modifier_ids"`
		Rejected            bool     `json:"rejected"`
	}
	decodeBody(t, resp, &out)
	assert.False(t, out.Rejected)
	assert.Equal(t, []string{"peanuts", "cilantro"}, out.SelectedModifierIDs)
}

func TestToggleSelectionMinimumRejection(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/items/noodles/selection", map[string]any{
		"group_id":              "spice",
		"modifier_id":           "hot",
		"selected_modifier_ids": []string{"hot"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		SelectedModifierIDs []string `json:"selected_modifier_ids"`
		Rejected            bool     `json:"rejected"`
		Reason              string   `json:"reason"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Rejected)
	assert.Equal(t, "minimum_not_met", out.Reason)
	assert.Equal(t, []string{"hot"}, out.SelectedModifierIDs)
}

func TestQuoteEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/cart/items", map[string]any{
		"item_id":      "noodles",
		"modifier_ids": []string{"hot"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/restaurants/r1/checkout/quote", map[string]any{
		"delivery_method":    "delivery",
		"tax_rate":           0.05,
		"delivery_fee_cents": 499,
		"tip_percentage":     15,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var quote struct {
		Lines []struct {
			ModifierSummary string `json:"modifier_summary"`
		} `json:"lines"`
		Pricing struct {
			SubtotalCents    int64 `json:"subtotal_cents"`
			DeliveryFeeCents int64 `json:"delivery_fee_cents"`
			TaxCents         int64 `json:"tax_cents"`
			TipCents         int64 `json:"tip_cents"`
			TotalCents       int64 `json:"total_cents"`
		} `json:"pricing"`
	}
	decodeBody(t, resp, &quote)

	require.Len(t, quote.Lines, 1)
	assert.Equal(t, "Hot", quote.Lines[0].ModifierSummary)
	assert.Equal(t, int64(1299), quote.Pricing.SubtotalCents)
	assert.Equal(t, int64(499), quote.Pricing.DeliveryFeeCents)
	assert.Equal(t, quote.Pricing.SubtotalCents+quote.Pricing.TaxCents+quote.Pricing.DeliveryFeeCents+quote.Pricing.TipCents,
		quote.Pricing.TotalCents)
}

func TestQuoteEmptyCart(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/checkout/quote", map[string]any{
		"delivery_method": "pickup",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestMutuallyExclusiveTipModes(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/checkout/quote", map[string]any{
		"delivery_method": "pickup",
		"tip_percentage":  15,
		"tip_fixed_cents": 300,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmitOrderUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/restaurants/r1/orders", map[string]any{
		"quote": map[string]any{"delivery_method": "pickup"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}
