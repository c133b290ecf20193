package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/cache"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

type CategoryService interface {
	ListCategories(ctx context.Context, p models.Pagination) ([]*models.Category, int, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, req *models.CategoryRequest) (*models.Category, error)
	// RemoveCategory soft deletes the category and unpublishes every book in it.
	RemoveCategory(ctx context.Context, id string) (*models.RemoveCategoryResponse, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache bookCache
}

func NewCategoryService(repo repository.CategoryRepository, c cache.Cache) CategoryService {
	return &categoryService{repo: repo, cache: bookCache{cache: c}}
}

func (s *categoryService) ListCategories(ctx context.Context, p models.Pagination) ([]*models.Category, int, error) {
	categories, total, err := s.repo.ListCategories(ctx, p)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, total, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	categoryID, err := utils.ParseID(id, "Category")
	if err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, repoError(err, "Category", "fetch category")
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		ID:   uuid.New(),
		Name: utils.Sanitize(req.Name),
		Slug: utils.Sanitize(req.Slug),
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.DatabaseError("Failed to create category").WithError(err)
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id string, req *models.CategoryRequest) (*models.Category, error) {
	categoryID, err := utils.ParseID(id, "Category")
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:   categoryID,
		Name: utils.Sanitize(req.Name),
		Slug: utils.Sanitize(req.Slug),
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, repoError(err, "Category", "update category")
	}

	// cached books embed their category
	bookIDs, err := s.repo.ListBookIDs(ctx, categoryID)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to list category books for cache invalidation",
			slog.String("categoryId", categoryID.String()), slog.String("error", err.Error()))
	}

	s.cache.invalidate(ctx, bookIDs...)

	return category, nil
}

func (s *categoryService) RemoveCategory(ctx context.Context, id string) (*models.RemoveCategoryResponse, error) {
	categoryID, err := utils.ParseID(id, "Category")
	if err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, repoError(err, "Category", "fetch category")
	}

	unpublished, err := s.repo.RemoveCategory(ctx, categoryID)
	if err != nil {
		return nil, repoError(err, "Category", "remove category")
	}

	s.cache.invalidate(ctx, unpublished...)

	category.IsRemoved = true

	middleware.LoggerFromContext(ctx).Info("Category removed",
		slog.String("categoryId", categoryID.String()),
		slog.Int("unpublishedBooks", len(unpublished)))

	return &models.RemoveCategoryResponse{Category: category, UnpublishedIDs: unpublished}, nil
}
