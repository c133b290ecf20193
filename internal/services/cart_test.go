package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/repositories/memory"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/services/mocks"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	repos    *repository.Repositories
	store    *memory.Store
	notifier *mocks.Notifier
	service  CartService
	category *models.Category
	claims   *models.Claims
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	repos, store := memory.New()
	notifier := new(mocks.Notifier)

	return &cartFixture{
		repos:    repos,
		store:    store,
		notifier: notifier,
		service:  NewCartService(repos.Cart, repos.Book, notifier, nil),
		category: testutils.SeedCategory(t, repos),
		claims:   testutils.UserClaims(uuid.New()),
	}
}

func (f *cartFixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()

	book, ok := f.store.Book(id)
	require.True(t, ok)

	return book.NumberInStock
}

func TestCartService_AddToCart(t *testing.T) {
	ctx := testutils.Context()

	t.Run("Success - Same book twice bumps the entity", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		_, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		require.Len(t, cart.Orders, 1)
		assert.Equal(t, 2, cart.Orders[0].Entity)
		assert.True(t, decimal.NewFromInt(90000).Equal(cart.Orders[0].OrderPrice))
		assert.True(t, decimal.NewFromInt(180000).Equal(cart.TotalPrice), cart.TotalPrice.String())
		assert.True(t, cart.IsOpen)
	})

	t.Run("Success - Line price does not follow catalog changes", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		_, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		book.Price = decimal.NewFromInt(500000)
		require.NoError(t, f.repos.Book.UpdateBook(context.Background(), book))

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		require.Len(t, cart.Orders, 1)
		assert.True(t, decimal.NewFromInt(90000).Equal(cart.Orders[0].OrderPrice))
		assert.True(t, decimal.NewFromInt(180000).Equal(cart.TotalPrice))
	})

	t.Run("Success - Two books share one open cart", func(t *testing.T) {
		f := newCartFixture(t)
		first := testutils.SeedBook(t, f.repos, f.category.ID, 5)
		second := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		a, err := f.service.AddToCart(ctx, f.claims.UserID, first.ID.String())
		require.NoError(t, err)

		b, err := f.service.AddToCart(ctx, f.claims.UserID, second.ID.String())
		require.NoError(t, err)

		assert.Equal(t, a.ID, b.ID)
		assert.Len(t, b.Orders, 2)
	})

	t.Run("Failure - Malformed book id", func(t *testing.T) {
		f := newCartFixture(t)

		_, err := f.service.AddToCart(ctx, f.claims.UserID, "not-a-uuid")
		requireAppError(t, err, http.StatusBadRequest, appErrors.ErrCodeInvalidReference)
	})

	t.Run("Failure - Removed book", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)
		require.NoError(t, f.repos.Book.RemoveBook(context.Background(), book.ID))

		_, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		requireAppError(t, err, http.StatusNotFound, appErrors.ErrCodeNotFound)
	})
}

// conflictingCarts loses the first cart creation race to a concurrent request.
type conflictingCarts struct {
	repository.CartRepository
	raced bool
}

func (c *conflictingCarts) CreateCart(ctx context.Context, cart *models.Cart) error {
	if !c.raced {
		c.raced = true

		winner := &models.Cart{ID: uuid.New(), UserID: cart.UserID, IsOpen: true}
		if err := c.CartRepository.CreateCart(ctx, winner); err != nil {
			return err
		}

		return repository.ErrConflict
	}

	return c.CartRepository.CreateCart(ctx, cart)
}

func TestCartService_AddToCartRace(t *testing.T) {
	ctx := testutils.Context()
	f := newCartFixture(t)
	book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

	svc := NewCartService(&conflictingCarts{CartRepository: f.repos.Cart}, f.repos.Book, f.notifier, nil)

	cart, err := svc.AddToCart(ctx, f.claims.UserID, book.ID.String())
	require.NoError(t, err)
	require.Len(t, cart.Orders, 1)

	open, err := f.repos.Cart.GetOpenCart(ctx, f.claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, cart.ID)
}

func TestCartService_DecrementAndRemove(t *testing.T) {
	ctx := testutils.Context()

	t.Run("Success - Decrement at one removes the line", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		cart, err = f.service.DecrementFromCart(ctx, f.claims.UserID, cart.Orders[0].ID.String(), book.ID.String())
		require.NoError(t, err)

		assert.Empty(t, cart.Orders)
		assert.True(t, cart.IsOpen)
		assert.True(t, cart.TotalPrice.IsZero())
	})

	t.Run("Success - Decrement lowers the entity", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		for range 3 {
			_, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
			require.NoError(t, err)
		}

		open, err := f.service.GetOpenCart(ctx, f.claims.UserID)
		require.NoError(t, err)

		cart, err := f.service.DecrementFromCart(ctx, f.claims.UserID, open.Orders[0].ID.String(), book.ID.String())
		require.NoError(t, err)

		require.Len(t, cart.Orders, 1)
		assert.Equal(t, 2, cart.Orders[0].Entity)
		assert.True(t, decimal.NewFromInt(180000).Equal(cart.TotalPrice))
	})

	t.Run("Success - Remove drops the whole line", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		_, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		cart, err = f.service.RemoveFromCart(ctx, f.claims.UserID, cart.Orders[0].ID.String(), book.ID.String())
		require.NoError(t, err)
		assert.Empty(t, cart.Orders)
	})

	t.Run("Failure - Book does not match the line", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		_, err = f.service.DecrementFromCart(ctx, f.claims.UserID, cart.Orders[0].ID.String(), uuid.NewString())
		requireAppError(t, err, http.StatusBadRequest, appErrors.ErrCodeBadRequest)
	})

	t.Run("Failure - Line of another user", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		other := uuid.New()
		_, err = f.service.AddToCart(ctx, other, book.ID.String())
		require.NoError(t, err)

		_, err = f.service.RemoveFromCart(ctx, other, cart.Orders[0].ID.String(), book.ID.String())
		requireAppError(t, err, http.StatusNotFound, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - No open cart", func(t *testing.T) {
		f := newCartFixture(t)

		_, err := f.service.DecrementFromCart(ctx, f.claims.UserID, uuid.NewString(), uuid.NewString())
		requireAppError(t, err, http.StatusNotFound, appErrors.ErrCodeNotFound)
	})
}

func TestCartService_Checkout(t *testing.T) {
	ctx := testutils.Context()

	t.Run("Success - Stock decremented, cart closed and mail sent", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		_, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)
		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg *models.EmailMessage) bool {
			return msg.To == f.claims.Email &&
				msg.Template == models.TemplateCheckout &&
				msg.Context["tracking_code"] == cart.ID.String()
		})).Return(nil).Once()

		result, err := f.service.Checkout(ctx, f.claims, cart.ID.String())
		require.NoError(t, err)

		assert.Equal(t, cart.ID.String(), result.TrackingCode)
		assert.False(t, result.Cart.IsOpen)
		assert.True(t, decimal.NewFromInt(180000).Equal(result.Cart.TotalPrice))
		assert.NoError(t, result.NotificationErr)
		assert.Equal(t, 3, f.stock(t, book.ID))

		f.notifier.AssertExpectations(t)

		_, err = f.service.GetOpenCart(ctx, f.claims.UserID)
		requireAppError(t, err, http.StatusNotFound, appErrors.ErrCodeNotFound)

		next, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)
		assert.NotEqual(t, cart.ID, next.ID)
		assert.Len(t, next.Orders, 1)
	})

	t.Run("Success - Mail failure does not fail the checkout", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		f.notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		result, err := f.service.Checkout(ctx, f.claims, cart.ID.String())
		require.NoError(t, err)
		require.Error(t, result.NotificationErr)
		assert.Equal(t, 4, f.stock(t, book.ID))
	})

	t.Run("Failure - Validation messages leave stock untouched", func(t *testing.T) {
		tests := []struct {
			name    string
			stock   int
			entity  int
			mutate  func(f *cartFixture, book *models.Book)
			message string
		}{
			{name: "out of stock", stock: 0, entity: 1, message: "is out of stock"},
			{name: "too few copies", stock: 1, entity: 2, message: "Only 1 copies of book"},
			{
				name: "unpublished", stock: 5, entity: 1,
				mutate: func(f *cartFixture, book *models.Book) {
					book.IsPublished = false
					require.NoError(t, f.repos.Book.UpdateBook(context.Background(), book))
				},
				message: "has been removed from the store",
			},
			{
				name: "removed", stock: 5, entity: 1,
				mutate: func(f *cartFixture, book *models.Book) {
					require.NoError(t, f.repos.Book.RemoveBook(context.Background(), book.ID))
				},
				message: "has been removed from the store",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newCartFixture(t)
				plenty := testutils.SeedBook(t, f.repos, f.category.ID, 10)
				book := testutils.SeedBook(t, f.repos, f.category.ID, tt.stock)

				_, err := f.service.AddToCart(ctx, f.claims.UserID, plenty.ID.String())
				require.NoError(t, err)

				var cart *models.Cart
				for range tt.entity {
					cart, err = f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
					require.NoError(t, err)
				}

				if tt.mutate != nil {
					tt.mutate(f, book)
				}

				_, err = f.service.Checkout(ctx, f.claims, cart.ID.String())
				appErr := requireAppError(t, err, http.StatusBadRequest, appErrors.ErrCodeInsufficientStock)
				assert.Contains(t, appErr.Message, tt.message)

				assert.Equal(t, 10, f.stock(t, plenty.ID))

				open, err := f.service.GetOpenCart(ctx, f.claims.UserID)
				require.NoError(t, err)
				assert.Equal(t, cart.ID, open.ID)

				f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Failure - Closed cart", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

		_, err = f.service.Checkout(ctx, f.claims, cart.ID.String())
		require.NoError(t, err)

		_, err = f.service.Checkout(ctx, f.claims, cart.ID.String())
		requireAppError(t, err, http.StatusBadRequest, appErrors.ErrCodeBadRequest)
		assert.Equal(t, 4, f.stock(t, book.ID))
	})

	t.Run("Failure - Cart of another user", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		_, err = f.service.Checkout(ctx, testutils.UserClaims(uuid.New()), cart.ID.String())
		requireAppError(t, err, http.StatusForbidden, appErrors.ErrCodeForbidden)
	})

	t.Run("Failure - Empty cart", func(t *testing.T) {
		f := newCartFixture(t)
		book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

		cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
		require.NoError(t, err)

		_, err = f.service.RemoveFromCart(ctx, f.claims.UserID, cart.Orders[0].ID.String(), book.ID.String())
		require.NoError(t, err)

		_, err = f.service.Checkout(ctx, f.claims, cart.ID.String())
		appErr := requireAppError(t, err, http.StatusBadRequest, appErrors.ErrCodeBadRequest)
		assert.Equal(t, "Cart has no orders", appErr.Message)
	})

	t.Run("Failure - Unknown cart", func(t *testing.T) {
		f := newCartFixture(t)

		_, err := f.service.Checkout(ctx, f.claims, uuid.NewString())
		requireAppError(t, err, http.StatusNotFound, appErrors.ErrCodeNotFound)
	})
}

// staleBooks serves book reads from a snapshot so validation passes while
// the store has already been drained by a competing checkout.
type staleBooks struct {
	repository.BookRepository
	snapshot map[uuid.UUID]models.Book
}

func (s *staleBooks) GetBookByID(_ context.Context, id uuid.UUID) (*models.Book, error) {
	book, ok := s.snapshot[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &book, nil
}

func TestCartService_CheckoutLostRace(t *testing.T) {
	ctx := testutils.Context()
	f := newCartFixture(t)

	first := testutils.SeedBook(t, f.repos, f.category.ID, 5)
	second := testutils.SeedBook(t, f.repos, f.category.ID, 5)

	_, err := f.service.AddToCart(ctx, f.claims.UserID, first.ID.String())
	require.NoError(t, err)
	cart, err := f.service.AddToCart(ctx, f.claims.UserID, second.ID.String())
	require.NoError(t, err)

	stale := &staleBooks{BookRepository: f.repos.Book, snapshot: map[uuid.UUID]models.Book{}}
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		book, ok := f.store.Book(id)
		require.True(t, ok)
		stale.snapshot[id] = book
	}

	// a competing buyer takes every copy of the second book
	drained, ok := f.store.Book(second.ID)
	require.True(t, ok)
	drained.NumberInStock = 0
	require.NoError(t, f.repos.Book.UpdateBook(context.Background(), &drained))

	svc := NewCartService(f.repos.Cart, stale, f.notifier, nil)

	_, err = svc.Checkout(ctx, f.claims, cart.ID.String())
	appErr := requireAppError(t, err, http.StatusBadRequest, appErrors.ErrCodeInsufficientStock)
	assert.Contains(t, appErr.Message, "is out of stock")

	assert.Equal(t, 5, f.stock(t, first.ID))

	open, err := f.repos.Cart.GetOpenCart(ctx, f.claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, open.ID)
}

func TestCartService_ClosedCarts(t *testing.T) {
	ctx := testutils.Context()
	f := newCartFixture(t)
	book := testutils.SeedBook(t, f.repos, f.category.ID, 5)

	cart, err := f.service.AddToCart(ctx, f.claims.UserID, book.ID.String())
	require.NoError(t, err)

	_, err = f.service.GetClosedCart(ctx, f.claims, cart.ID.String())
	requireAppError(t, err, http.StatusNotFound, appErrors.ErrCodeNotFound)

	f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	_, err = f.service.Checkout(ctx, f.claims, cart.ID.String())
	require.NoError(t, err)

	carts, total, err := f.service.ListClosedCarts(ctx, f.claims.UserID, models.NewPagination(0, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, carts, 1)
	assert.Equal(t, cart.ID, carts[0].ID)

	closed, err := f.service.GetClosedCart(ctx, f.claims, cart.ID.String())
	require.NoError(t, err)
	require.Len(t, closed.Orders, 1)
	require.NotNil(t, closed.Orders[0].Book)

	_, err = f.service.GetClosedCart(ctx, testutils.UserClaims(uuid.New()), cart.ID.String())
	requireAppError(t, err, http.StatusForbidden, appErrors.ErrCodeForbidden)

	_, err = f.service.GetClosedCart(ctx, testutils.AdminClaims(uuid.New()), cart.ID.String())
	require.NoError(t, err)
}
