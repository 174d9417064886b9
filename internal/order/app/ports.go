package app

import (
	"context"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/order/domain"
)

type OrderRepo interface {
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
}

// CartClearer empties the submitted restaurant's cart after a successful
// order.
type CartClearer interface {
	Clear(restaurantID string)
}
