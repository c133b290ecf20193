package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/stretchr/testify/mock"
)

func books(v any) []*models.Book {
	if v == nil {
		return nil
	}

	return v.([]*models.Book)
}

func book(v any) *models.Book {
	if v == nil {
		return nil
	}

	return v.(*models.Book)
}

type BookService struct {
	mock.Mock
}

func (_m *BookService) ListBooks(ctx context.Context, p models.Pagination) ([]*models.Book, int, error) {
	ret := _m.Called(ctx, p)
	return books(ret.Get(0)), ret.Int(1), ret.Error(2)
}

func (_m *BookService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	ret := _m.Called(ctx, id)
	return book(ret.Get(0)), ret.Error(1)
}

func (_m *BookService) ListPublishedBooks(ctx context.Context, p models.Pagination, search, sort string) ([]*models.Book, int, error) {
	ret := _m.Called(ctx, p, search, sort)
	return books(ret.Get(0)), ret.Int(1), ret.Error(2)
}

func (_m *BookService) GetPublishedBook(ctx context.Context, id string) (*models.Book, error) {
	ret := _m.Called(ctx, id)
	return book(ret.Get(0)), ret.Error(1)
}

func (_m *BookService) RelatedBooks(ctx context.Context, id string) ([]*models.Book, int, error) {
	ret := _m.Called(ctx, id)
	return books(ret.Get(0)), ret.Int(1), ret.Error(2)
}

func (_m *BookService) CreateBook(ctx context.Context, req *models.BookRequest, image []byte) (*models.Book, error) {
	ret := _m.Called(ctx, req, image)
	return book(ret.Get(0)), ret.Error(1)
}

func (_m *BookService) UpdateBook(ctx context.Context, id string, req *models.BookRequest, image []byte) (*models.Book, error) {
	ret := _m.Called(ctx, id, req, image)
	return book(ret.Get(0)), ret.Error(1)
}

func (_m *BookService) RemoveBook(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}

type CategoryService struct {
	mock.Mock
}

func category(v any) *models.Category {
	if v == nil {
		return nil
	}

	return v.(*models.Category)
}

func (_m *CategoryService) ListCategories(ctx context.Context, p models.Pagination) ([]*models.Category, int, error) {
	ret := _m.Called(ctx, p)

	var categories []*models.Category
	if v := ret.Get(0); v != nil {
		categories = v.([]*models.Category)
	}

	return categories, ret.Int(1), ret.Error(2)
}

func (_m *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	ret := _m.Called(ctx, id)
	return category(ret.Get(0)), ret.Error(1)
}

func (_m *CategoryService) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	ret := _m.Called(ctx, req)
	return category(ret.Get(0)), ret.Error(1)
}

func (_m *CategoryService) UpdateCategory(ctx context.Context, id string, req *models.CategoryRequest) (*models.Category, error) {
	ret := _m.Called(ctx, id, req)
	return category(ret.Get(0)), ret.Error(1)
}

func (_m *CategoryService) RemoveCategory(ctx context.Context, id string) (*models.RemoveCategoryResponse, error) {
	ret := _m.Called(ctx, id)

	var resp *models.RemoveCategoryResponse
	if v := ret.Get(0); v != nil {
		resp = v.(*models.RemoveCategoryResponse)
	}

	return resp, ret.Error(1)
}

type AdvertiseService struct {
	mock.Mock
}

func advertises(v any) []*models.Advertise {
	if v == nil {
		return nil
	}

	return v.([]*models.Advertise)
}

func advertise(v any) *models.Advertise {
	if v == nil {
		return nil
	}

	return v.(*models.Advertise)
}

func (_m *AdvertiseService) ListAdvertises(ctx context.Context, p models.Pagination) ([]*models.Advertise, int, error) {
	ret := _m.Called(ctx, p)
	return advertises(ret.Get(0)), ret.Int(1), ret.Error(2)
}

func (_m *AdvertiseService) ListPublishedAdvertises(ctx context.Context, p models.Pagination) ([]*models.Advertise, int, error) {
	ret := _m.Called(ctx, p)
	return advertises(ret.Get(0)), ret.Int(1), ret.Error(2)
}

func (_m *AdvertiseService) GetAdvertise(ctx context.Context, id string) (*models.Advertise, error) {
	ret := _m.Called(ctx, id)
	return advertise(ret.Get(0)), ret.Error(1)
}

func (_m *AdvertiseService) CreateAdvertise(ctx context.Context, req *models.AdvertiseRequest, image []byte) (*models.Advertise, error) {
	ret := _m.Called(ctx, req, image)
	return advertise(ret.Get(0)), ret.Error(1)
}

func (_m *AdvertiseService) UpdateAdvertise(ctx context.Context, id string, req *models.AdvertiseRequest, image []byte) (*models.Advertise, error) {
	ret := _m.Called(ctx, id, req, image)
	return advertise(ret.Get(0)), ret.Error(1)
}

func (_m *AdvertiseService) RemoveAdvertise(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}
