package domain

import "time"

const (
	StatusPending = "PENDING"
)

type Order struct {
	ID               string
	RestaurantID     string
	UserID           string
	Status           string
	DeliveryMethod   string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TaxCents         int64
	TipCents         int64
	TotalCents       int64
	Items            []OrderItem
	CreatedAt        time.Time
}

type OrderItem struct {
	ID              string
	OrderID         string
	ItemID          string
	Name            string
	VariantName     string
	ModifierSummary string
	UnitPriceCents  int64
	Quantity        int32
	LineTotalCents  int64
}

// SubmitRequest is a finalized quote plus the identifiers needed to file it.
type SubmitRequest struct {
	RestaurantID     string
	UserID           string
	DeliveryMethod   string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TaxCents         int64
	TipCents         int64
	TotalCents       int64
	Items            []SubmitItem
}

type SubmitItem struct {
	ItemID          string
	Name            string
	VariantName     string
	ModifierSummary string
	UnitPriceCents  int64
	Quantity        int32
}

type SubmitResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}
