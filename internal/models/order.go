package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a single cart line. OrderPrice is the unit price captured when the
// book first entered the cart; later catalog price changes do not touch it.
type Order struct {
	ID         uuid.UUID       `json:"id"`
	CartID     uuid.UUID       `json:"cart_id"`
	BookID     uuid.UUID       `json:"book_id"`
	Book       *Book           `json:"book,omitempty"`
	OrderPrice decimal.Decimal `json:"order_price"`
	Entity     int             `json:"entity"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (o *Order) Subtotal() decimal.Decimal {
	return o.OrderPrice.Mul(decimal.NewFromInt(int64(o.Entity)))
}
