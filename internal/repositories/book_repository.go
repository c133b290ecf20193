package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

type BookRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, book *models.Book) error
	GetBookByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	GetPublishedBookByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	ListBooks(ctx context.Context, p models.Pagination) ([]*models.Book, int, error)
	ListPublishedBooks(ctx context.Context, filter models.BookFilter) ([]*models.Book, int, error)
	ListRelatedBooks(ctx context.Context, book *models.Book, limit int) ([]*models.Book, int, error)
	RemoveBook(ctx context.Context, id uuid.UUID) error
	CountBooks(ctx context.Context) (int, error)
}

type bookRepository struct {
	DB *sql.DB
}

func NewBookRepo(db *sql.DB) BookRepository {
	return &bookRepository{DB: db}
}

const bookSelect = `
	SELECT b.id, b.name, b.image_url, b.year, b.lang, b.page_count, b.shabak, b.price, b.discount,
		b.detail, b.number_in_stock, b.authors, b.is_published, b.category_id, b.is_removed,
		b.created_at, b.updated_at,
		c.id, c.name, c.slug, c.is_removed, c.created_at, c.updated_at
	FROM books b
	JOIN categories c ON c.id = b.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.Book, error) {
	book := &models.Book{}
	category := &models.Category{}

	err := row.Scan(&book.ID, &book.Name, &book.ImageURL, &book.Year, &book.Lang, &book.PageCount, &book.Shabak,
		&book.Price, &book.Discount, &book.Detail, &book.NumberInStock, &book.Authors, &book.IsPublished,
		&book.CategoryID, &book.IsRemoved, &book.CreatedAt, &book.UpdatedAt,
		&category.ID, &category.Name, &category.Slug, &category.IsRemoved, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}

	book.Category = category

	return book, nil
}

func (r *bookRepository) CreateBook(ctx context.Context, book *models.Book) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO books (id, name, image_url, year, lang, page_count, shabak, price, discount, detail,
			number_in_stock, authors, is_published, category_id, is_removed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, book.ID, book.Name, book.ImageURL, book.Year, book.Lang, book.PageCount,
		book.Shabak, book.Price, book.Discount, book.Detail, book.NumberInStock, book.Authors, book.IsPublished,
		book.CategoryID).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

func (r *bookRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE books
		SET name = $1, image_url = $2, year = $3, lang = $4, page_count = $5, shabak = $6, price = $7,
			discount = $8, detail = $9, number_in_stock = $10, authors = $11, is_published = $12,
			category_id = $13, updated_at = NOW()
		WHERE id = $14 AND NOT is_removed
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, book.Name, book.ImageURL, book.Year, book.Lang, book.PageCount,
		book.Shabak, book.Price, book.Discount, book.Detail, book.NumberInStock, book.Authors, book.IsPublished,
		book.CategoryID, book.ID).Scan(&book.UpdatedAt)
	if err != nil {
		return notFound(err)
	}

	return nil
}

func (r *bookRepository) GetBookByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	book, err := scanBook(r.DB.QueryRowContext(dbCtx, bookSelect+` WHERE b.id = $1 AND NOT b.is_removed`, id))
	if err != nil {
		return nil, notFound(err)
	}

	return book, nil
}

func (r *bookRepository) GetPublishedBookByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	book, err := scanBook(r.DB.QueryRowContext(dbCtx, bookSelect+` WHERE b.id = $1 AND b.is_published AND NOT b.is_removed`, id))
	if err != nil {
		return nil, notFound(err)
	}

	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, p models.Pagination) ([]*models.Book, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM books WHERE NOT is_removed`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := bookSelect + `
		WHERE NOT b.is_removed
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2`

	books, err := r.queryBooks(dbCtx, query, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookRepository) ListPublishedBooks(ctx context.Context, filter models.BookFilter) ([]*models.Book, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ` WHERE b.is_published AND NOT b.is_removed`
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		where += fmt.Sprintf(` AND b.name ILIKE $%d`, len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM books b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count published books: %w", err)
	}

	// SortField only ever holds a value from models.BookSortFields.
	column := filter.SortField
	if _, ok := allowedSortColumns[column]; !ok {
		column = "created_at"
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, filter.Skip())
	query := bookSelect + where + fmt.Sprintf(` ORDER BY b.%s %s, b.id LIMIT $%d OFFSET $%d`, column, direction, len(args)-1, len(args))

	books, err := r.queryBooks(dbCtx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookRepository) ListRelatedBooks(ctx context.Context, book *models.Book, limit int) ([]*models.Book, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	countQuery := `
		SELECT COUNT(*) FROM books
		WHERE category_id = $1 AND id <> $2 AND is_published AND NOT is_removed`

	var total int
	if err := r.DB.QueryRowContext(dbCtx, countQuery, book.CategoryID, book.ID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count related books: %w", err)
	}

	query := bookSelect + `
		WHERE b.category_id = $1 AND b.id <> $2 AND b.is_published AND NOT b.is_removed
		ORDER BY b.created_at DESC
		LIMIT $3`

	books, err := r.queryBooks(dbCtx, query, book.CategoryID, book.ID, limit)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookRepository) RemoveBook(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE books SET is_removed = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_removed`, id)
	if err != nil {
		return fmt.Errorf("failed to remove book: %w", err)
	}

	return expectAffected(result)
}

func (r *bookRepository) CountBooks(ctx context.Context) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM books WHERE NOT is_removed`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}

	return total, nil
}

func (r *bookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]*models.Book, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []*models.Book{}

	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}

		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

var allowedSortColumns = func() map[string]struct{} {
	columns := make(map[string]struct{}, len(models.BookSortFields))
	for _, column := range models.BookSortFields {
		columns[column] = struct{}{}
	}

	return columns
}()

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
