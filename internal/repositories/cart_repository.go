package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrCartClosed = errors.New("cart is closed")
	ErrEmptyCart  = errors.New("cart has no orders")
)

type CartRepository interface {
	// CreateCart inserts an open, empty cart. ErrConflict means the user already has one.
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	ListClosedCarts(ctx context.Context, userID uuid.UUID, p models.Pagination) ([]*models.Cart, int, error)
	// AddBook inserts the line, or bumps its entity by one when the book is
	// already in the cart. The price of an existing line is never touched.
	AddBook(ctx context.Context, cartID uuid.UUID, line *models.Order) error
	// DecrementLine lowers the entity by one and deletes the line at one.
	DecrementLine(ctx context.Context, cartID, orderID uuid.UUID) error
	RemoveLine(ctx context.Context, cartID, orderID uuid.UUID) error
	// Checkout decrements stock for every line and closes the cart, all or nothing.
	Checkout(ctx context.Context, cartID uuid.UUID) error
	ClosedCartStats(ctx context.Context) (models.CartStats, error)
	UserClosedCartStats(ctx context.Context, userID uuid.UUID) (models.CartStats, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

const cartColumns = `id, user_id, total_price, is_open, created_at, updated_at`

const lineSelect = `
	SELECT o.id, o.cart_id, o.book_id, o.order_price, o.entity, o.created_at, o.updated_at,
		b.id, b.name, b.image_url, b.year, b.lang, b.page_count, b.shabak, b.price, b.discount,
		b.detail, b.number_in_stock, b.authors, b.is_published, b.category_id, b.is_removed,
		b.created_at, b.updated_at,
		c.id, c.name, c.slug, c.is_removed, c.created_at, c.updated_at
	FROM cart_orders o
	JOIN books b ON b.id = o.book_id
	JOIN categories c ON c.id = b.category_id`

const recalculateTotal = `
	UPDATE carts
	SET total_price = COALESCE((SELECT SUM(order_price * entity) FROM cart_orders WHERE cart_id = $1), 0),
		updated_at = NOW()
	WHERE id = $1`

func scanCart(row rowScanner) (*models.Cart, error) {
	cart := &models.Cart{Orders: []models.Order{}}

	if err := row.Scan(&cart.ID, &cart.UserID, &cart.TotalPrice, &cart.IsOpen, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, err
	}

	return cart, nil
}

func scanLine(row rowScanner) (models.Order, error) {
	var line models.Order

	book := &models.Book{}
	category := &models.Category{}

	err := row.Scan(&line.ID, &line.CartID, &line.BookID, &line.OrderPrice, &line.Entity, &line.CreatedAt, &line.UpdatedAt,
		&book.ID, &book.Name, &book.ImageURL, &book.Year, &book.Lang, &book.PageCount, &book.Shabak,
		&book.Price, &book.Discount, &book.Detail, &book.NumberInStock, &book.Authors, &book.IsPublished,
		&book.CategoryID, &book.IsRemoved, &book.CreatedAt, &book.UpdatedAt,
		&category.ID, &category.Name, &category.Slug, &category.IsRemoved, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return line, err
	}

	book.Category = category
	line.Book = book

	return line, nil
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (id, user_id, total_price, is_open, created_at, updated_at)
		VALUES ($1, $2, 0, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, cart.ID, cart.UserID).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}

		return fmt.Errorf("failed to insert cart: %w", err)
	}

	cart.IsOpen = true

	return nil
}

func (r *cartRepository) GetOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart, err := scanCart(r.DB.QueryRowContext(dbCtx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1 AND is_open`, userID))
	if err != nil {
		return nil, notFound(err)
	}

	if err := r.attachLines(dbCtx, []*models.Cart{cart}); err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *cartRepository) GetCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart, err := scanCart(r.DB.QueryRowContext(dbCtx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}

	if err := r.attachLines(dbCtx, []*models.Cart{cart}); err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *cartRepository) ListClosedCarts(ctx context.Context, userID uuid.UUID, p models.Pagination) ([]*models.Cart, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM carts WHERE user_id = $1 AND NOT is_open`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count carts: %w", err)
	}

	query := `SELECT ` + cartColumns + `
		FROM carts
		WHERE user_id = $1 AND NOT is_open
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query carts: %w", err)
	}
	defer rows.Close()

	carts := []*models.Cart{}

	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan cart: %w", err)
		}

		carts = append(carts, cart)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate carts: %w", err)
	}

	if err := r.attachLines(dbCtx, carts); err != nil {
		return nil, 0, err
	}

	return carts, total, nil
}

// attachLines loads the lines of every cart in one round trip and derives each total from them.
func (r *cartRepository) attachLines(ctx context.Context, carts []*models.Cart) error {
	if len(carts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(carts))
	byID := make(map[uuid.UUID]*models.Cart, len(carts))

	for _, cart := range carts {
		ids = append(ids, cart.ID.String())
		byID[cart.ID] = cart
	}

	rows, err := r.DB.QueryContext(ctx, lineSelect+` WHERE o.cart_id = ANY($1::uuid[]) ORDER BY o.created_at`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query cart orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return fmt.Errorf("failed to scan cart order: %w", err)
		}

		if cart, ok := byID[line.CartID]; ok {
			cart.Orders = append(cart.Orders, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate cart orders: %w", err)
	}

	for _, cart := range carts {
		cart.Recalculate()
	}

	return nil
}

// withOpenCart runs fn in a transaction holding the row lock of an open cart,
// then recomputes the stored total from the lines.
func (r *cartRepository) withOpenCart(ctx context.Context, cartID uuid.UUID, fn func(ctx context.Context, tx *sql.Tx) error) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var isOpen bool
	if err := tx.QueryRowContext(dbCtx, `SELECT is_open FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&isOpen); err != nil {
		return notFound(err)
	}

	if !isOpen {
		return ErrCartClosed
	}

	if err := fn(dbCtx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(dbCtx, recalculateTotal, cartID); err != nil {
		return fmt.Errorf("failed to recalculate cart total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart update: %w", err)
	}

	return nil
}

func (r *cartRepository) AddBook(ctx context.Context, cartID uuid.UUID, line *models.Order) error {
	return r.withOpenCart(ctx, cartID, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO cart_orders (id, cart_id, book_id, order_price, entity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 1, NOW(), NOW())
			ON CONFLICT (cart_id, book_id)
			DO UPDATE SET entity = cart_orders.entity + 1, updated_at = NOW()
			RETURNING id, order_price, entity, created_at, updated_at`

		err := tx.QueryRowContext(ctx, query, line.ID, cartID, line.BookID, line.OrderPrice).
			Scan(&line.ID, &line.OrderPrice, &line.Entity, &line.CreatedAt, &line.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to add book to cart: %w", err)
		}

		line.CartID = cartID

		return nil
	})
}

func (r *cartRepository) DecrementLine(ctx context.Context, cartID, orderID uuid.UUID) error {
	return r.withOpenCart(ctx, cartID, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE cart_orders SET entity = entity - 1, updated_at = NOW()
			WHERE id = $1 AND cart_id = $2 AND entity > 1`, orderID, cartID)
		if err != nil {
			return fmt.Errorf("failed to decrement cart order: %w", err)
		}

		if affected, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		} else if affected == 1 {
			return nil
		}

		result, err = tx.ExecContext(ctx, `DELETE FROM cart_orders WHERE id = $1 AND cart_id = $2 AND entity = 1`, orderID, cartID)
		if err != nil {
			return fmt.Errorf("failed to delete cart order: %w", err)
		}

		return expectAffected(result)
	})
}

func (r *cartRepository) RemoveLine(ctx context.Context, cartID, orderID uuid.UUID) error {
	return r.withOpenCart(ctx, cartID, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM cart_orders WHERE id = $1 AND cart_id = $2`, orderID, cartID)
		if err != nil {
			return fmt.Errorf("failed to delete cart order: %w", err)
		}

		return expectAffected(result)
	})
}

func (r *cartRepository) Checkout(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var isOpen bool
	if err := tx.QueryRowContext(dbCtx, `SELECT is_open FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&isOpen); err != nil {
		return notFound(err)
	}

	if !isOpen {
		return ErrCartClosed
	}

	// Ordered by book so concurrent checkouts lock books in the same order.
	rows, err := tx.QueryContext(dbCtx, `SELECT book_id, entity FROM cart_orders WHERE cart_id = $1 ORDER BY book_id`, cartID)
	if err != nil {
		return fmt.Errorf("failed to query cart orders: %w", err)
	}

	type demand struct {
		bookID uuid.UUID
		entity int
	}

	var demands []demand

	for rows.Next() {
		var d demand
		if err := rows.Scan(&d.bookID, &d.entity); err != nil {
			rows.Close()

			return fmt.Errorf("failed to scan cart order: %w", err)
		}

		demands = append(demands, d)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate cart orders: %w", err)
	}

	if len(demands) == 0 {
		return ErrEmptyCart
	}

	for _, d := range demands {
		result, err := tx.ExecContext(dbCtx, `
			UPDATE books SET number_in_stock = number_in_stock - $1, updated_at = NOW()
			WHERE id = $2 AND number_in_stock >= $1 AND is_published AND NOT is_removed`, d.entity, d.bookID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}

		if affected == 0 {
			return &StockConflictError{BookID: d.bookID}
		}
	}

	if _, err := tx.ExecContext(dbCtx, recalculateTotal, cartID); err != nil {
		return fmt.Errorf("failed to recalculate cart total: %w", err)
	}

	if _, err := tx.ExecContext(dbCtx, `UPDATE carts SET is_open = FALSE, updated_at = NOW() WHERE id = $1 AND is_open`, cartID); err != nil {
		return fmt.Errorf("failed to close cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}

	return nil
}

func (r *cartRepository) ClosedCartStats(ctx context.Context) (models.CartStats, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var stats models.CartStats

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM carts WHERE NOT is_open`).
		Scan(&stats.Count, &stats.Total)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate carts: %w", err)
	}

	return stats, nil
}

func (r *cartRepository) UserClosedCartStats(ctx context.Context, userID uuid.UUID) (models.CartStats, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var stats models.CartStats

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM carts WHERE user_id = $1 AND NOT is_open`, userID).
		Scan(&stats.Count, &stats.Total)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate user carts: %w", err)
	}

	return stats, nil
}
