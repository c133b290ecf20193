package repository_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRepository_CreateBook(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookRepo(db)
	ctx := t.Context()
	now := time.Now()

	book := &models.Book{
		ID:            uuid.New(),
		Name:          "Dune",
		ImageURL:      "http://cdn.local/book.jpg",
		Year:          "1965",
		Lang:          "en",
		PageCount:     412,
		Shabak:        "978-0441013593",
		Price:         decimal.NewFromInt(100000),
		Discount:      10,
		Detail:        "Desert planet politics",
		NumberInStock: 3,
		Authors:       "Frank Herbert",
		IsPublished:   true,
		CategoryID:    uuid.New(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WithArgs(book.ID, book.Name, book.ImageURL, book.Year, book.Lang, book.PageCount, book.Shabak, book.Price,
			book.Discount, book.Detail, book.NumberInStock, book.Authors, book.IsPublished, book.CategoryID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.CreateBook(ctx, book))
	assert.WithinDuration(t, now, book.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_GetBookByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookRepo(db)
	ctx := t.Context()
	now := time.Now()
	fixture := bookFixture{id: uuid.New(), name: "Dune", price: "100000", discount: 10, stock: 3, categoryID: uuid.New(), published: true}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.id = $1 AND NOT b.is_removed`)).
			WithArgs(fixture.id).
			WillReturnRows(bookRows(now, fixture))

		book, err := repo.GetBookByID(ctx, fixture.id)

		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Name)
		assert.Equal(t, fixture.categoryID, book.CategoryID)
		require.NotNil(t, book.Category)
		assert.Equal(t, "Science Fiction", book.Category.Name)
		assert.True(t, decimal.NewFromInt(90000).Equal(book.SnapshotPrice()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.id = $1 AND NOT b.is_removed`)).
			WithArgs(fixture.id).
			WillReturnRows(sqlmock.NewRows(bookColumns))

		book, err := repo.GetBookByID(ctx, fixture.id)

		assert.Nil(t, book)
		require.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookRepository_ListPublishedBooks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookRepo(db)
	ctx := t.Context()
	now := time.Now()
	fixture := bookFixture{id: uuid.New(), name: "Dune", price: "100000", stock: 3, categoryID: uuid.New(), published: true}

	t.Run("Search And Sort", func(t *testing.T) {
		filter := models.BookFilter{Pagination: models.NewPagination(1, 2), Search: "du%", SortField: "price", SortDesc: true}

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM books b WHERE b.is_published AND NOT b.is_removed AND b.name ILIKE $1`)).
			WithArgs(`%du\%%`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY b.price DESC, b.id LIMIT $2 OFFSET $3`)).
			WithArgs(`%du\%%`, 2, 2).
			WillReturnRows(bookRows(now, fixture))

		books, total, err := repo.ListPublishedBooks(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, books, 1)
		assert.Equal(t, fixture.id, books[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Sort Column Falls Back", func(t *testing.T) {
		filter := models.BookFilter{Pagination: models.NewPagination(0, 5), SortField: "price; DROP TABLE books"}

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM books b`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY b.created_at ASC, b.id LIMIT $1 OFFSET $2`)).
			WithArgs(5, 0).
			WillReturnRows(sqlmock.NewRows(bookColumns))

		books, total, err := repo.ListPublishedBooks(ctx, filter)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, books)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookRepository_ListRelatedBooks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookRepo(db)
	ctx := t.Context()
	now := time.Now()
	categoryID := uuid.New()
	source := &models.Book{ID: uuid.New(), CategoryID: categoryID}
	sibling := bookFixture{id: uuid.New(), name: "Dune Messiah", price: "80000", stock: 2, categoryID: categoryID, published: true}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM books WHERE category_id = $1 AND id <> $2`)).
		WithArgs(categoryID, source.ID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.category_id = $1 AND b.id <> $2`)).
		WithArgs(categoryID, source.ID, models.RelatedBooksMax).
		WillReturnRows(bookRows(now, sibling))

	books, total, err := repo.ListRelatedBooks(ctx, source, models.RelatedBooksMax)

	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, books, 1)
	assert.NotEqual(t, source.ID, books[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_RemoveBook(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewBookRepo(db)
	ctx := t.Context()
	id := uuid.New()
	removeSQL := regexp.QuoteMeta(`UPDATE books SET is_removed = TRUE`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(removeSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.RemoveBook(ctx, id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Removed", func(t *testing.T) {
		mock.ExpectExec(removeSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.RemoveBook(ctx, id), repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mock.ExpectExec(removeSQL).WithArgs(id).WillReturnError(dbErr)

		require.ErrorIs(t, repo.RemoveBook(ctx, id), dbErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
