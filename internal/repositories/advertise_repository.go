package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

type AdvertiseRepository interface {
	CreateAdvertise(ctx context.Context, advertise *models.Advertise) error
	UpdateAdvertise(ctx context.Context, advertise *models.Advertise) error
	GetAdvertiseByID(ctx context.Context, id uuid.UUID) (*models.Advertise, error)
	ListAdvertises(ctx context.Context, p models.Pagination, publishedOnly bool) ([]*models.Advertise, int, error)
	RemoveAdvertise(ctx context.Context, id uuid.UUID) error
}

type advertiseRepository struct {
	DB *sql.DB
}

func NewAdvertiseRepo(db *sql.DB) AdvertiseRepository {
	return &advertiseRepository{DB: db}
}

const advertiseSelect = `
	SELECT a.id, a.image_url, a.book_id, a.is_published, a.is_removed, a.created_at, a.updated_at,
		b.id, b.name, b.image_url, b.price, b.discount, b.number_in_stock, b.is_published, b.is_removed
	FROM advertises a
	JOIN books b ON b.id = a.book_id`

func scanAdvertise(row rowScanner) (*models.Advertise, error) {
	advertise := &models.Advertise{}
	book := &models.Book{}

	err := row.Scan(&advertise.ID, &advertise.ImageURL, &advertise.BookID, &advertise.IsPublished, &advertise.IsRemoved,
		&advertise.CreatedAt, &advertise.UpdatedAt,
		&book.ID, &book.Name, &book.ImageURL, &book.Price, &book.Discount, &book.NumberInStock, &book.IsPublished, &book.IsRemoved)
	if err != nil {
		return nil, err
	}

	advertise.Book = book

	return advertise, nil
}

func (r *advertiseRepository) CreateAdvertise(ctx context.Context, advertise *models.Advertise) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO advertises (id, image_url, book_id, is_published, is_removed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, advertise.ID, advertise.ImageURL, advertise.BookID, advertise.IsPublished).
		Scan(&advertise.CreatedAt, &advertise.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert advertise: %w", err)
	}

	return nil
}

func (r *advertiseRepository) UpdateAdvertise(ctx context.Context, advertise *models.Advertise) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE advertises SET image_url = $1, book_id = $2, is_published = $3, updated_at = NOW()
		WHERE id = $4 AND NOT is_removed
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, advertise.ImageURL, advertise.BookID, advertise.IsPublished, advertise.ID).
		Scan(&advertise.UpdatedAt)
	if err != nil {
		return notFound(err)
	}

	return nil
}

func (r *advertiseRepository) GetAdvertiseByID(ctx context.Context, id uuid.UUID) (*models.Advertise, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	advertise, err := scanAdvertise(r.DB.QueryRowContext(dbCtx, advertiseSelect+` WHERE a.id = $1 AND NOT a.is_removed`, id))
	if err != nil {
		return nil, notFound(err)
	}

	return advertise, nil
}

func (r *advertiseRepository) ListAdvertises(ctx context.Context, p models.Pagination, publishedOnly bool) ([]*models.Advertise, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ` WHERE NOT a.is_removed`
	if publishedOnly {
		where += ` AND a.is_published`
	}

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM advertises a`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count advertises: %w", err)
	}

	rows, err := r.DB.QueryContext(dbCtx, advertiseSelect+where+` ORDER BY a.created_at DESC LIMIT $1 OFFSET $2`, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query advertises: %w", err)
	}
	defer rows.Close()

	advertises := []*models.Advertise{}

	for rows.Next() {
		advertise, err := scanAdvertise(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan advertise: %w", err)
		}

		advertises = append(advertises, advertise)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate advertises: %w", err)
	}

	return advertises, total, nil
}

func (r *advertiseRepository) RemoveAdvertise(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE advertises SET is_removed = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_removed`, id)
	if err != nil {
		return fmt.Errorf("failed to remove advertise: %w", err)
	}

	return expectAffected(result)
}
