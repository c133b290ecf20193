package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func cart(v any) *models.Cart {
	if v == nil {
		return nil
	}

	return v.(*models.Cart)
}

func (_m *CartService) AddToCart(ctx context.Context, userID uuid.UUID, bookID string) (*models.Cart, error) {
	ret := _m.Called(ctx, userID, bookID)
	return cart(ret.Get(0)), ret.Error(1)
}

func (_m *CartService) DecrementFromCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, error) {
	ret := _m.Called(ctx, userID, orderID, bookID)
	return cart(ret.Get(0)), ret.Error(1)
}

func (_m *CartService) RemoveFromCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, error) {
	ret := _m.Called(ctx, userID, orderID, bookID)
	return cart(ret.Get(0)), ret.Error(1)
}

func (_m *CartService) GetOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	ret := _m.Called(ctx, userID)
	return cart(ret.Get(0)), ret.Error(1)
}

func (_m *CartService) ListClosedCarts(ctx context.Context, userID uuid.UUID, p models.Pagination) ([]*models.Cart, int, error) {
	ret := _m.Called(ctx, userID, p)

	var carts []*models.Cart
	if v := ret.Get(0); v != nil {
		carts = v.([]*models.Cart)
	}

	return carts, ret.Int(1), ret.Error(2)
}

func (_m *CartService) GetClosedCart(ctx context.Context, claims *models.Claims, cartID string) (*models.Cart, error) {
	ret := _m.Called(ctx, claims, cartID)
	return cart(ret.Get(0)), ret.Error(1)
}

func (_m *CartService) Checkout(ctx context.Context, claims *models.Claims, cartID string) (*models.CheckoutResult, error) {
	ret := _m.Called(ctx, claims, cartID)

	var result *models.CheckoutResult
	if v := ret.Get(0); v != nil {
		result = v.(*models.CheckoutResult)
	}

	return result, ret.Error(1)
}
