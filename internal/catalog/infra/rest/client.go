package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
)

// Client fetches raw restaurant catalogs from the upstream menu API and
// adapts them into domain items. All field coalescing (price vs fee_in_cents,
// name vs name_zh) happens here, once, at the boundary.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchMenu GETs {base}/restaurants/{id}/menu and returns the flat item list.
func (c *Client) FetchMenu(ctx context.Context, restaurantID string) ([]domain.Item, error) {
	u := fmt.Sprintf("%s/restaurants/%s/menu", c.baseURL, url.PathEscape(restaurantID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch: upstream returned %d", resp.StatusCode)
	}

	var payload []rawItem
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog fetch: decode: %w", err)
	}

	items := make([]domain.Item, 0, len(payload))
	for _, r := range payload {
		items = append(items, r.toDomain())
	}
	return items, nil
}

// rawItem mirrors the upstream JSON. The backend is inconsistent about field
// names across restaurants, hence the duplicated price and name fields.
// Unknown fields are ignored.
type rawItem struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	NameZH          string             `json:"name_zh"`
	AlternateName   string             `json:"alternate_name"`
	Categories      []string           `json:"categories"`
	FeeInCents      *int64             `json:"fee_in_cents"`
	Price           *float64           `json:"price"`
	VariantGroupKey string             `json:"variant_group_key"`
	Items           []rawItem          `json:"items"`
	ModifierGroups  []rawModifierGroup `json:"modifier_groups"`
	IsAvailable     *bool              `json:"is_available"`
}

type rawModifierGroup struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	MinRequired int           `json:"minRequired"`
	MaxAllowed  int           `json:"maxAllowed"`
	Modifiers   []rawModifier `json:"modifiers"`
}

type rawModifier struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func (r rawItem) toDomain() domain.Item {
	it := domain.Item{
		ID:              r.ID,
		Name:            r.Name,
		NameZH:          r.NameZH,
		AlternateName:   r.AlternateName,
		Categories:      r.Categories,
		PriceCents:      r.priceCents(),
		VariantGroupKey: r.VariantGroupKey,
		Available:       r.IsAvailable == nil || *r.IsAvailable,
	}

	for _, v := range r.Items {
		it.Variants = append(it.Variants, v.toDomain())
	}

	for _, g := range r.ModifierGroups {
		mg := domain.ModifierGroup{
			ID:          g.ID,
			Name:        g.Name,
			MinRequired: g.MinRequired,
			MaxAllowed:  g.MaxAllowed,
		}
		for _, m := range g.Modifiers {
			mg.Modifiers = append(mg.Modifiers, domain.Modifier{
				ID:         m.ID,
				Name:       m.Name,
				PriceCents: m.Price,
			})
		}
		it.ModifierGroups = append(it.ModifierGroups, mg)
	}

	return it
}

// priceCents prefers the integer fee_in_cents field; older restaurant rows
// only carry a dollar-valued price float.
func (r rawItem) priceCents() int64 {
	if r.FeeInCents != nil {
		return *r.FeeInCents
	}
	if r.Price != nil {
		return int64(math.Round(*r.Price * 100))
	}
	return 0
}
