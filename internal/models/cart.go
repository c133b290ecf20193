package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart groups the order lines of one user. A user has at most one open cart;
// checkout closes it for good.
type Cart struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	User       *User           `json:"user,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Orders     []Order         `json:"orders"`
	IsOpen     bool            `json:"is_open"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Recalculate derives TotalPrice from the lines.
func (c *Cart) Recalculate() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Orders {
		total = total.Add(c.Orders[i].Subtotal())
	}

	c.TotalPrice = total

	return total
}

func (c *Cart) FindOrderByBook(bookID uuid.UUID) (*Order, bool) {
	for i := range c.Orders {
		if c.Orders[i].BookID == bookID {
			return &c.Orders[i], true
		}
	}

	return nil, false
}

func (c *Cart) FindOrder(orderID uuid.UUID) (*Order, bool) {
	for i := range c.Orders {
		if c.Orders[i].ID == orderID {
			return &c.Orders[i], true
		}
	}

	return nil, false
}

type AddToCartRequest struct {
	Book   *BookRef `json:"book,omitempty"`
	BookID string   `json:"book_id,omitempty"`
}

// BookRef accepts the nested book reference, keyed either "_id" (the shape
// older clients send) or "id".
type BookRef struct {
	ID       string `json:"id"`
	LegacyID string `json:"_id"`
}

func (r *AddToCartRequest) ResolveBookID() string {
	if r.BookID != "" {
		return r.BookID
	}

	if r.Book != nil {
		if r.Book.ID != "" {
			return r.Book.ID
		}

		return r.Book.LegacyID
	}

	return ""
}

type EditOrderRequest = AddToCartRequest

type CheckoutResult struct {
	Cart            *Cart  `json:"cart"`
	TrackingCode    string `json:"tracking_code"`
	NotificationErr error  `json:"-"`
}
