package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/order/domain"
)

var ErrDuplicateOrder = errors.New("store: duplicate order")

// OrderRepo persists submitted orders into the managed Postgres that backs
// the app.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// CreateOrderTx inserts the order row and its items in one transaction.
func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	created := order
	created.ID = uuid.NewString()

	err := r.execTX(ctx, func(tx *sql.Tx) error {
		const insertOrder = `
			INSERT INTO orders (id, restaurant_id, user_id, status, delivery_method,
				subtotal_cents, delivery_fee_cents, tax_cents, tip_cents, total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at;
		`
		err := tx.QueryRowContext(ctx, insertOrder,
			created.ID, order.RestaurantID, order.UserID, order.Status, order.DeliveryMethod,
			order.SubtotalCents, order.DeliveryFeeCents, order.TaxCents, order.TipCents, order.TotalCents,
		).Scan(&created.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrDuplicateOrder
			}
			return fmt.Errorf("insert order: %w", err)
		}

		const insertItem = `
			INSERT INTO order_items (id, order_id, item_id, name, variant_name,
				modifier_summary, unit_price_cents, quantity, line_total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		created.Items = make([]domain.OrderItem, 0, len(order.Items))
		for i, item := range order.Items {
			if item.LineTotalCents != item.UnitPriceCents*int64(item.Quantity) {
				return fmt.Errorf("item %d: line total mismatch", i)
			}

			item.ID = uuid.NewString()
			item.OrderID = created.ID
			if _, err := tx.ExecContext(ctx, insertItem,
				item.ID, item.OrderID, item.ItemID, item.Name, item.VariantName,
				item.ModifierSummary, item.UnitPriceCents, item.Quantity, item.LineTotalCents,
			); err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
			created.Items = append(created.Items, item)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return created, nil
}
