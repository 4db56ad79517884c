package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a placed order. Items are owned by the
// order: they are persisted and deleted together with it.
type Order struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Username  string          `json:"username" db:"-"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	Items     []*OrderItem    `json:"items" db:"-"`
}

// OrderLineRequest is one (product, quantity) pair of a creation request.
// Quantity minimums are enforced at the HTTP boundary.
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
