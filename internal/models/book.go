package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxDiscount = 100

	BookImageWidth  = 1920
	BookImageHeight = 1080
)

type Book struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url"`
	Year          string          `json:"year"`
	Lang          string          `json:"lang"`
	PageCount     int             `json:"page_count"`
	Shabak        string          `json:"shabak"`
	Price         decimal.Decimal `json:"price"`
	Discount      int             `json:"discount"`
	Detail        string          `json:"detail"`
	NumberInStock int             `json:"number_in_stock"`
	Authors       string          `json:"authors"`
	IsPublished   bool            `json:"is_published"`
	CategoryID    uuid.UUID       `json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
	IsRemoved     bool            `json:"is_removed"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SnapshotPrice is the per-unit price a cart line captures when the book is added.
func (b *Book) SnapshotPrice() decimal.Decimal {
	remaining := decimal.NewFromInt(int64(MaxDiscount - b.Discount))
	return b.Price.Mul(remaining).Div(decimal.NewFromInt(MaxDiscount)).Round(2)
}

// Purchasable reports whether the book may currently be sold at all.
func (b *Book) Purchasable() bool {
	return b.IsPublished && !b.IsRemoved
}

// BookRequest carries the editable fields of a book. It is filled from a
// multipart form because book writes always travel with an image.
type BookRequest struct {
	Name          string          `json:"name" validate:"required,min=3,max=60"`
	Year          string          `json:"year" validate:"required"`
	Lang          string          `json:"lang" validate:"required"`
	PageCount     int             `json:"page_count" validate:"gte=0"`
	Shabak        string          `json:"shabak" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	Discount      int             `json:"discount" validate:"gte=0,lte=100"`
	Detail        string          `json:"detail" validate:"required,min=10"`
	NumberInStock int             `json:"number_in_stock" validate:"gte=0"`
	Authors       string          `json:"authors" validate:"required,min=3,max=60"`
	IsPublished   bool            `json:"is_published"`
	CategoryID    string          `json:"category_id" validate:"required"`
}

// BookSortFields maps the public sort keys onto book columns.
var BookSortFields = map[string]string{
	"name":      "name",
	"price":     "price",
	"year":      "year",
	"discount":  "discount",
	"createdAt": "created_at",
}

// BookFilter narrows the published catalog. Search is a case-insensitive
// substring of the name; SortField is a column from BookSortFields.
type BookFilter struct {
	Pagination
	Search    string
	SortField string
	SortDesc  bool
}

// ParseBookSort turns "price" or "-price" into a column and a direction.
// An empty key sorts by newest first.
func ParseBookSort(raw string) (string, bool, bool) {
	if raw == "" {
		return "created_at", true, true
	}

	desc := false
	if raw[0] == '-' {
		desc = true
		raw = raw[1:]
	}

	column, ok := BookSortFields[raw]

	return column, desc, ok
}
