package memory

import (
	"context"
	"sort"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartRepository struct {
	store *Store
}

// view copies a cart with its lines, each line carrying its book. Callers hold the lock.
func (r *CartRepository) view(cart *models.Cart) *models.Cart {
	s := r.store
	c := *cart
	c.Orders = []models.Order{}

	for _, line := range s.lines {
		if line.CartID != cart.ID {
			continue
		}

		l := *line
		if book, ok := s.books[line.BookID]; ok {
			l.Book = s.bookView(book)
		}

		c.Orders = append(c.Orders, l)
	}

	sort.Slice(c.Orders, func(i, j int) bool {
		if !c.Orders[i].CreatedAt.Equal(c.Orders[j].CreatedAt) {
			return c.Orders[i].CreatedAt.Before(c.Orders[j].CreatedAt)
		}

		return c.Orders[i].ID.String() < c.Orders[j].ID.String()
	})

	c.Recalculate()

	return &c
}

func (r *CartRepository) CreateCart(_ context.Context, cart *models.Cart) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.carts {
		if existing.UserID == cart.UserID && existing.IsOpen {
			return repository.ErrConflict
		}
	}

	now := s.now()
	cart.CreatedAt, cart.UpdatedAt = now, now
	cart.IsOpen = true
	cart.TotalPrice = decimal.Zero

	stored := *cart
	stored.Orders = nil
	stored.User = nil
	s.carts[cart.ID] = &stored

	return nil
}

func (r *CartRepository) GetOpenCart(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cart := range s.carts {
		if cart.UserID == userID && cart.IsOpen {
			return r.view(cart), nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *CartRepository) GetCartByID(_ context.Context, id uuid.UUID) (*models.Cart, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return r.view(cart), nil
}

func (r *CartRepository) ListClosedCarts(_ context.Context, userID uuid.UUID, p models.Pagination) ([]*models.Cart, int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := []*models.Cart{}

	for _, cart := range s.carts {
		if cart.UserID == userID && !cart.IsOpen {
			carts = append(carts, r.view(cart))
		}
	}

	sort.Slice(carts, func(i, j int) bool {
		return newestFirst(carts[i].UpdatedAt, carts[j].UpdatedAt, carts[i].ID, carts[j].ID)
	})

	return paginate(carts, p), len(carts), nil
}

// openCart returns the stored cart when it exists and is open. Callers hold the lock.
func (r *CartRepository) openCart(cartID uuid.UUID) (*models.Cart, error) {
	cart, ok := r.store.carts[cartID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if !cart.IsOpen {
		return nil, repository.ErrCartClosed
	}

	return cart, nil
}

func (r *CartRepository) lineOf(cartID, orderID uuid.UUID) (*models.Order, bool) {
	line, ok := r.store.lines[orderID]
	if !ok || line.CartID != cartID {
		return nil, false
	}

	return line, true
}

func (r *CartRepository) touch(cart *models.Cart) {
	cart.UpdatedAt = r.store.now()
	cart.TotalPrice = r.view(cart).TotalPrice
}

func (r *CartRepository) AddBook(_ context.Context, cartID uuid.UUID, line *models.Order) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := r.openCart(cartID)
	if err != nil {
		return err
	}

	now := s.now()

	for _, existing := range s.lines {
		if existing.CartID == cartID && existing.BookID == line.BookID {
			existing.Entity++
			existing.UpdatedAt = now

			line.ID = existing.ID
			line.OrderPrice = existing.OrderPrice
			line.Entity = existing.Entity
			line.CreatedAt = existing.CreatedAt
			line.UpdatedAt = now
			line.CartID = cartID

			r.touch(cart)

			return nil
		}
	}

	line.CartID = cartID
	line.Entity = 1
	line.CreatedAt, line.UpdatedAt = now, now

	stored := *line
	stored.Book = nil
	s.lines[line.ID] = &stored

	r.touch(cart)

	return nil
}

func (r *CartRepository) DecrementLine(_ context.Context, cartID, orderID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := r.openCart(cartID)
	if err != nil {
		return err
	}

	line, ok := r.lineOf(cartID, orderID)
	if !ok {
		return repository.ErrNotFound
	}

	if line.Entity > 1 {
		line.Entity--
		line.UpdatedAt = s.now()
	} else {
		delete(s.lines, orderID)
	}

	r.touch(cart)

	return nil
}

func (r *CartRepository) RemoveLine(_ context.Context, cartID, orderID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := r.openCart(cartID)
	if err != nil {
		return err
	}

	if _, ok := r.lineOf(cartID, orderID); !ok {
		return repository.ErrNotFound
	}

	delete(s.lines, orderID)
	r.touch(cart)

	return nil
}

func (r *CartRepository) Checkout(_ context.Context, cartID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := r.openCart(cartID)
	if err != nil {
		return err
	}

	lines := r.view(cart).Orders
	if len(lines) == 0 {
		return repository.ErrEmptyCart
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].BookID.String() < lines[j].BookID.String() })

	// Verify every line before touching any stock so a failure leaves no trace.
	for _, line := range lines {
		book, ok := s.books[line.BookID]
		if !ok || !book.Purchasable() || book.NumberInStock < line.Entity {
			return &repository.StockConflictError{BookID: line.BookID}
		}
	}

	now := s.now()

	for _, line := range lines {
		book := s.books[line.BookID]
		book.NumberInStock -= line.Entity
		book.UpdatedAt = now
	}

	r.touch(cart)
	cart.IsOpen = false

	return nil
}

func (r *CartRepository) ClosedCartStats(_ context.Context) (models.CartStats, error) {
	return r.stats(func(*models.Cart) bool { return true }), nil
}

func (r *CartRepository) UserClosedCartStats(_ context.Context, userID uuid.UUID) (models.CartStats, error) {
	return r.stats(func(c *models.Cart) bool { return c.UserID == userID }), nil
}

func (r *CartRepository) stats(keep func(*models.Cart) bool) models.CartStats {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.CartStats{Total: decimal.Zero}

	for _, cart := range s.carts {
		if !cart.IsOpen && keep(cart) {
			stats.Count++
			stats.Total = stats.Total.Add(cart.TotalPrice)
		}
	}

	return stats
}
