package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, p models.Pagination) ([]*models.Category, int, error)
	// RemoveCategory marks the category removed and unpublishes its books in
	// one transaction. It returns the ids of the books it unpublished.
	RemoveCategory(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// ListBookIDs returns the published books of the category.
	ListBookIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (id, name, slug, is_removed, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.ID, category.Name, category.Slug).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE categories SET name = $1, slug = $2, updated_at = NOW()
		WHERE id = $3 AND NOT is_removed
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.Name, category.Slug, category.ID).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return notFound(err)
	}

	return nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, slug, is_removed, created_at, updated_at
		FROM categories
		WHERE id = $1 AND NOT is_removed`

	category := &models.Category{}

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&category.ID, &category.Name, &category.Slug, &category.IsRemoved, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, p models.Pagination) ([]*models.Category, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM categories WHERE NOT is_removed`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `
		SELECT id, name, slug, is_removed, created_at, updated_at
		FROM categories
		WHERE NOT is_removed
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}

	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.IsRemoved, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, total, nil
}

func (r *categoryRepository) RemoveCategory(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(dbCtx, `UPDATE categories SET is_removed = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_removed`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to remove category: %w", err)
	}

	if err := expectAffected(result); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(dbCtx, `
		UPDATE books SET is_published = FALSE, updated_at = NOW()
		WHERE category_id = $1 AND is_published
		RETURNING id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish category books: %w", err)
	}

	unpublished := []uuid.UUID{}

	for rows.Next() {
		var bookID uuid.UUID
		if err := rows.Scan(&bookID); err != nil {
			rows.Close()

			return nil, fmt.Errorf("failed to scan unpublished book: %w", err)
		}

		unpublished = append(unpublished, bookID)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unpublished books: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category removal: %w", err)
	}

	return unpublished, nil
}

func (r *categoryRepository) ListBookIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id FROM books WHERE category_id = $1 AND is_published AND NOT is_removed`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query category books: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}

	for rows.Next() {
		var bookID uuid.UUID
		if err := rows.Scan(&bookID); err != nil {
			return nil, fmt.Errorf("failed to scan category book: %w", err)
		}

		ids = append(ids, bookID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category books: %w", err)
	}

	return ids, nil
}
