package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem records one line of an order. UnitPrice is the product's price
// captured at order time; later catalog price changes never alter it.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"-"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}
