package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/cache"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

// addAttempts bounds how often AddToCart starts over after losing a race
// against a concurrent cart creation or checkout.
const addAttempts = 3

type CartService interface {
	AddToCart(ctx context.Context, userID uuid.UUID, bookID string) (*models.Cart, error)
	DecrementFromCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, error)
	GetOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListClosedCarts(ctx context.Context, userID uuid.UUID, p models.Pagination) ([]*models.Cart, int, error)
	GetClosedCart(ctx context.Context, claims *models.Claims, cartID string) (*models.Cart, error)
	Checkout(ctx context.Context, claims *models.Claims, cartID string) (*models.CheckoutResult, error)
}

type cartService struct {
	carts    repository.CartRepository
	books    repository.BookRepository
	notifier Notifier
	cache    bookCache
}

func NewCartService(carts repository.CartRepository, books repository.BookRepository, notifier Notifier, c cache.Cache) CartService {
	return &cartService{carts: carts, books: books, notifier: notifier, cache: bookCache{cache: c}}
}

func (s *cartService) AddToCart(ctx context.Context, userID uuid.UUID, bookID string) (*models.Cart, error) {
	id, err := utils.ParseID(bookID, "Book")
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Book", "fetch book")
	}

	for range addAttempts {
		cart, err := s.openOrCreateCart(ctx, userID)
		if err != nil {
			return nil, err
		}

		line := &models.Order{
			ID:         uuid.New(),
			BookID:     book.ID,
			OrderPrice: book.SnapshotPrice(),
		}

		err = s.carts.AddBook(ctx, cart.ID, line)
		if err == nil {
			metrics.RecordCartMutation(metrics.CartAdd)

			return s.GetOpenCart(ctx, userID)
		}

		// the cart was checked out underneath us; the next pass opens a new one
		if errors.Is(err, repository.ErrCartClosed) || errors.Is(err, repository.ErrNotFound) {
			continue
		}

		return nil, appErrors.DatabaseError("Failed to add book to cart").WithError(err)
	}

	return nil, appErrors.InternalError("Failed to add book to cart after concurrent updates")
}

func (s *cartService) openOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.GetOpenCart(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	cart = &models.Cart{ID: uuid.New(), UserID: userID, IsOpen: true}

	err = s.carts.CreateCart(ctx, cart)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, repository.ErrConflict) {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	// another request created the open cart first
	cart, err = s.carts.GetOpenCart(ctx, userID)
	if err != nil {
		return nil, repoError(err, "Cart", "fetch cart")
	}

	return cart, nil
}

// lineInOpenCart resolves an order line of the caller's open cart and checks
// that it holds the expected book.
func (s *cartService) lineInOpenCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, *models.Order, error) {
	oid, err := utils.ParseID(orderID, "Order")
	if err != nil {
		return nil, nil, err
	}

	bid, err := utils.ParseID(bookID, "Book")
	if err != nil {
		return nil, nil, err
	}

	cart, err := s.carts.GetOpenCart(ctx, userID)
	if err != nil {
		return nil, nil, repoError(err, "Cart", "fetch cart")
	}

	line, ok := cart.FindOrder(oid)
	if !ok {
		return nil, nil, appErrors.NotFoundError("Order not found")
	}

	if line.BookID != bid {
		return nil, nil, appErrors.BadRequestError("Order does not hold this book")
	}

	return cart, line, nil
}

func (s *cartService) DecrementFromCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, error) {
	cart, line, err := s.lineInOpenCart(ctx, userID, orderID, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.DecrementLine(ctx, cart.ID, line.ID); err != nil {
		return nil, cartWriteError(err, "update order")
	}

	metrics.RecordCartMutation(metrics.CartDecrement)

	return s.GetOpenCart(ctx, userID)
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID uuid.UUID, orderID, bookID string) (*models.Cart, error) {
	cart, line, err := s.lineInOpenCart(ctx, userID, orderID, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.RemoveLine(ctx, cart.ID, line.ID); err != nil {
		return nil, cartWriteError(err, "remove order")
	}

	metrics.RecordCartMutation(metrics.CartRemove)

	return s.GetOpenCart(ctx, userID)
}

func cartWriteError(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrCartClosed):
		return appErrors.BadRequestError("Cart is already closed")
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.NotFoundError("Order not found")
	default:
		return appErrors.DatabaseError("Failed to " + action).WithError(err)
	}
}

func (s *cartService) GetOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.GetOpenCart(ctx, userID)
	if err != nil {
		return nil, repoError(err, "Cart", "fetch cart")
	}

	return cart, nil
}

func (s *cartService) ListClosedCarts(ctx context.Context, userID uuid.UUID, p models.Pagination) ([]*models.Cart, int, error) {
	carts, total, err := s.carts.ListClosedCarts(ctx, userID, p)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch carts").WithError(err)
	}

	return carts, total, nil
}

func (s *cartService) GetClosedCart(ctx context.Context, claims *models.Claims, cartID string) (*models.Cart, error) {
	id, err := utils.ParseID(cartID, "Cart")
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Cart", "fetch cart")
	}

	if cart.IsOpen {
		return nil, appErrors.NotFoundError("Cart not found")
	}

	if cart.UserID != claims.UserID && !claims.IsAdmin() {
		return nil, appErrors.ForbiddenError("You do not have permission to view this cart")
	}

	return cart, nil
}

func (s *cartService) Checkout(ctx context.Context, claims *models.Claims, cartID string) (*models.CheckoutResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	id, err := utils.ParseID(cartID, "Cart")
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Cart", "fetch cart")
	}

	if cart.UserID != claims.UserID {
		return nil, appErrors.ForbiddenError("You do not have permission to check out this cart")
	}

	if !cart.IsOpen {
		metrics.RecordCheckout(metrics.CheckoutRejected)
		return nil, appErrors.BadRequestError("Cart is already closed")
	}

	if len(cart.Orders) == 0 {
		metrics.RecordCheckout(metrics.CheckoutRejected)
		return nil, appErrors.BadRequestError("Cart has no orders")
	}

	for i := range cart.Orders {
		if err := s.validateLine(ctx, &cart.Orders[i]); err != nil {
			metrics.RecordCheckout(metrics.CheckoutRejected)
			return nil, err
		}
	}

	if err := s.carts.Checkout(ctx, cart.ID); err != nil {
		return nil, s.checkoutError(ctx, cart, err)
	}

	bookIDs := make([]uuid.UUID, 0, len(cart.Orders))
	for _, line := range cart.Orders {
		bookIDs = append(bookIDs, line.BookID)
	}

	s.cache.invalidate(ctx, bookIDs...)

	metrics.RecordCheckout(metrics.CheckoutCompleted)

	closed, err := s.carts.GetCartByID(ctx, cart.ID)
	if err != nil {
		return nil, repoError(err, "Cart", "fetch cart")
	}

	result := &models.CheckoutResult{Cart: closed, TrackingCode: closed.ID.String()}

	err = s.notifier.Send(ctx, &models.EmailMessage{
		To:       claims.Email,
		Subject:  "Your order has been placed",
		Template: models.TemplateCheckout,
		Context: map[string]any{
			"name":          claims.Name,
			"tracking_code": result.TrackingCode,
			"total_price":   closed.TotalPrice.StringFixed(2),
		},
	})
	if err != nil {
		result.NotificationErr = err

		logger.Warn("Checkout confirmation was not delivered",
			slog.String("cartId", closed.ID.String()),
			slog.String("error", err.Error()))
	}

	logger.Info("Cart checked out",
		slog.String("cartId", closed.ID.String()),
		slog.String("userId", claims.UserID.String()),
		slog.String("total", closed.TotalPrice.String()))

	return result, nil
}

// validateLine re-reads the book behind a line and rejects the checkout when
// it can no longer be sold in the requested quantity.
func (s *cartService) validateLine(ctx context.Context, line *models.Order) error {
	book, err := s.books.GetBookByID(ctx, line.BookID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return appErrors.DatabaseError("Failed to fetch book").WithError(err)
	}

	if book == nil {
		return appErrors.InsufficientStockError(fmt.Sprintf("Book %q has been removed from the store", lineBookName(line)))
	}

	return stockViolation(book, line.Entity)
}

func stockViolation(book *models.Book, entity int) error {
	switch {
	case !book.Purchasable():
		return appErrors.InsufficientStockError(fmt.Sprintf("Book %q has been removed from the store", book.Name))
	case book.NumberInStock == 0:
		return appErrors.InsufficientStockError(fmt.Sprintf("Book %q is out of stock", book.Name))
	case book.NumberInStock < entity:
		return appErrors.InsufficientStockError(fmt.Sprintf("Only %d copies of book %q are left", book.NumberInStock, book.Name))
	}

	return nil
}

func lineBookName(line *models.Order) string {
	if line.Book != nil && line.Book.Name != "" {
		return line.Book.Name
	}

	return line.BookID.String()
}

// checkoutError maps a failed checkout transaction. A stock conflict means
// another checkout won the race after validation passed; the book is re-read
// so the message reflects what is left now.
func (s *cartService) checkoutError(ctx context.Context, cart *models.Cart, err error) error {
	var conflict *repository.StockConflictError

	switch {
	case errors.As(err, &conflict):
		metrics.RecordCheckout(metrics.CheckoutConflict)

		line, ok := cart.FindOrderByBook(conflict.BookID)
		if !ok {
			return appErrors.InsufficientStockError("A book in the cart is out of stock").WithError(err)
		}

		if violation := s.validateLine(ctx, line); violation != nil {
			return violation
		}

		return appErrors.InsufficientStockError(fmt.Sprintf("Book %q is out of stock", lineBookName(line))).WithError(err)
	case errors.Is(err, repository.ErrCartClosed):
		metrics.RecordCheckout(metrics.CheckoutRejected)
		return appErrors.BadRequestError("Cart is already closed")
	case errors.Is(err, repository.ErrEmptyCart):
		metrics.RecordCheckout(metrics.CheckoutRejected)
		return appErrors.BadRequestError("Cart has no orders")
	default:
		return repoError(err, "Cart", "check out cart")
	}
}
