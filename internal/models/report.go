package models

import "github.com/shopspring/decimal"

type AdminChart struct {
	TotalPrice decimal.Decimal `json:"total_price"`
	BooksCount int             `json:"books_count"`
	CartsCount int             `json:"carts_count"`
	UsersCount int             `json:"users_count"`
}

type UserChart struct {
	TotalPrice decimal.Decimal `json:"total_price"`
	CartsCount int             `json:"carts_count"`
}

// CartStats aggregates closed carts.
type CartStats struct {
	Count int
	Total decimal.Decimal
}
