package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/order/domain"
)

var ErrInvalidOrder = errors.New("invalid order")

type Service struct {
	repo OrderRepo
	cart CartClearer
}

func NewService(repo OrderRepo, cart CartClearer) *Service {
	return &Service{repo: repo, cart: cart}
}

// SubmitOrder files a finalized quote as a pending order and clears the
// restaurant's cart. Line totals are recomputed here; the stored order never
// trusts client arithmetic.
func (s *Service) SubmitOrder(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error) {
	if req.RestaurantID == "" {
		return domain.SubmitResponse{}, fmt.Errorf("%w: missing restaurant id", ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return domain.SubmitResponse{}, fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for _, amount := range []int64{req.SubtotalCents, req.DeliveryFeeCents, req.TaxCents, req.TipCents, req.TotalCents} {
		if amount < 0 {
			return domain.SubmitResponse{}, fmt.Errorf("%w: negative amount", ErrInvalidOrder)
		}
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var subtotal int64

	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return domain.SubmitResponse{}, fmt.Errorf("%w: item %d quantity %d", ErrInvalidOrder, i, it.Quantity)
		}
		if it.UnitPriceCents < 0 {
			return domain.SubmitResponse{}, fmt.Errorf("%w: item %d unit price %d", ErrInvalidOrder, i, it.UnitPriceCents)
		}

		lineTotal := it.UnitPriceCents * int64(it.Quantity)
		items = append(items, domain.OrderItem{
			ItemID:          it.ItemID,
			Name:            it.Name,
			VariantName:     it.VariantName,
			ModifierSummary: it.ModifierSummary,
			UnitPriceCents:  it.UnitPriceCents,
			Quantity:        it.Quantity,
			LineTotalCents:  lineTotal,
		})
		subtotal += lineTotal
	}

	if subtotal != req.SubtotalCents {
		return domain.SubmitResponse{}, fmt.Errorf("%w: subtotal mismatch, lines sum to %d, quote says %d",
			ErrInvalidOrder, subtotal, req.SubtotalCents)
	}

	order := domain.Order{
		RestaurantID:     req.RestaurantID,
		UserID:           req.UserID,
		Status:           domain.StatusPending,
		DeliveryMethod:   req.DeliveryMethod,
		SubtotalCents:    req.SubtotalCents,
		DeliveryFeeCents: req.DeliveryFeeCents,
		TaxCents:         req.TaxCents,
		TipCents:         req.TipCents,
		TotalCents:       req.TotalCents,
		Items:            items,
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		return domain.SubmitResponse{}, err
	}

	if s.cart != nil {
		s.cart.Clear(req.RestaurantID)
	}

	return domain.SubmitResponse{
		ID:         created.ID,
		Status:     created.Status,
		TotalCents: created.TotalCents,
		CreatedAt:  created.CreatedAt,
	}, nil
}
