package service

import (
	"testing"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportService(t *testing.T) {
	ctx := testutils.Context()
	f := newCartFixture(t)
	reports := NewReportService(f.repos.Book, f.repos.Cart, f.repos.User)

	testutils.SeedUser(t, f.repos, "a@example.com")
	testutils.SeedUser(t, f.repos, "b@example.com")

	book := testutils.SeedBook(t, f.repos, f.category.ID, 10)
	removed := testutils.SeedBook(t, f.repos, f.category.ID, 10)
	require.NoError(t, f.repos.Book.RemoveBook(ctx, removed.ID))

	f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	buyer := f.claims
	for range 2 {
		cart, err := f.service.AddToCart(ctx, buyer.UserID, book.ID.String())
		require.NoError(t, err)

		_, err = f.service.Checkout(ctx, buyer, cart.ID.String())
		require.NoError(t, err)
	}

	other := testutils.UserClaims(uuid.New())
	cart, err := f.service.AddToCart(ctx, other.UserID, book.ID.String())
	require.NoError(t, err)
	_, err = f.service.Checkout(ctx, other, cart.ID.String())
	require.NoError(t, err)

	// an open cart never counts
	_, err = f.service.AddToCart(ctx, buyer.UserID, book.ID.String())
	require.NoError(t, err)

	admin, err := reports.AdminChart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, admin.CartsCount)
	assert.Equal(t, 1, admin.BooksCount)
	assert.Equal(t, 2, admin.UsersCount)
	assert.True(t, decimal.NewFromInt(270000).Equal(admin.TotalPrice), admin.TotalPrice.String())

	mine, err := reports.UserChart(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.CartsCount)
	assert.True(t, decimal.NewFromInt(180000).Equal(mine.TotalPrice))
}
