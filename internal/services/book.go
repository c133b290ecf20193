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

type BookService interface {
	ListBooks(ctx context.Context, p models.Pagination) ([]*models.Book, int, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	ListPublishedBooks(ctx context.Context, p models.Pagination, search, sort string) ([]*models.Book, int, error)
	GetPublishedBook(ctx context.Context, id string) (*models.Book, error)
	RelatedBooks(ctx context.Context, id string) ([]*models.Book, int, error)
	CreateBook(ctx context.Context, req *models.BookRequest, image []byte) (*models.Book, error)
	UpdateBook(ctx context.Context, id string, req *models.BookRequest, image []byte) (*models.Book, error)
	RemoveBook(ctx context.Context, id string) error
}

type bookService struct {
	books      repository.BookRepository
	categories repository.CategoryRepository
	media      MediaService
	cache      bookCache
}

func NewBookService(books repository.BookRepository, categories repository.CategoryRepository, media MediaService, c cache.Cache) BookService {
	return &bookService{books: books, categories: categories, media: media, cache: bookCache{cache: c}}
}

func (s *bookService) ListBooks(ctx context.Context, p models.Pagination) ([]*models.Book, int, error) {
	books, total, err := s.books.ListBooks(ctx, p)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch books").WithError(err)
	}

	return books, total, nil
}

func (s *bookService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	bookID, err := utils.ParseID(id, "Book")
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, repoError(err, "Book", "fetch book")
	}

	return book, nil
}

func (s *bookService) ListPublishedBooks(ctx context.Context, p models.Pagination, search, sort string) ([]*models.Book, int, error) {
	column, desc, ok := models.ParseBookSort(sort)
	if !ok {
		return nil, 0, appErrors.ValidationError("Unknown sort field " + sort)
	}

	filter := models.BookFilter{
		Pagination: p,
		Search:     utils.Sanitize(search),
		SortField:  column,
		SortDesc:   desc,
	}

	books, total, err := s.books.ListPublishedBooks(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch books").WithError(err)
	}

	return books, total, nil
}

func (s *bookService) GetPublishedBook(ctx context.Context, id string) (*models.Book, error) {
	bookID, err := utils.ParseID(id, "Book")
	if err != nil {
		return nil, err
	}

	if book, ok := s.cache.get(ctx, bookID); ok {
		return book, nil
	}

	book, err := s.books.GetPublishedBookByID(ctx, bookID)
	if err != nil {
		return nil, repoError(err, "Book", "fetch book")
	}

	s.cache.set(ctx, book)

	return book, nil
}

func (s *bookService) RelatedBooks(ctx context.Context, id string) ([]*models.Book, int, error) {
	bookID, err := utils.ParseID(id, "Book")
	if err != nil {
		return nil, 0, err
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, 0, repoError(err, "Book", "fetch book")
	}

	related, total, err := s.books.ListRelatedBooks(ctx, book, models.RelatedBooksMax)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch related books").WithError(err)
	}

	return related, total, nil
}

// applyRequest copies the editable fields after checking the book invariants.
func (s *bookService) applyRequest(ctx context.Context, book *models.Book, req *models.BookRequest) error {
	categoryID, err := utils.ParseID(req.CategoryID, "Category")
	if err != nil {
		return err
	}

	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return repoError(err, "Category", "fetch category")
	}

	if req.Price.IsNegative() {
		return appErrors.BusinessRuleError("Price must not be negative")
	}

	if req.NumberInStock < 0 {
		return appErrors.BusinessRuleError("Stock must not be negative")
	}

	if req.Discount < 0 || req.Discount > models.MaxDiscount {
		return appErrors.BusinessRuleError("Discount must be between 0 and 100")
	}

	book.Name = utils.Sanitize(req.Name)
	book.Year = utils.Sanitize(req.Year)
	book.Lang = utils.Sanitize(req.Lang)
	book.PageCount = req.PageCount
	book.Shabak = utils.Sanitize(req.Shabak)
	book.Price = req.Price
	book.Discount = req.Discount
	book.Detail = utils.Sanitize(req.Detail)
	book.NumberInStock = req.NumberInStock
	book.Authors = utils.Sanitize(req.Authors)
	book.IsPublished = req.IsPublished
	book.CategoryID = categoryID

	return nil
}

func (s *bookService) CreateBook(ctx context.Context, req *models.BookRequest, image []byte) (*models.Book, error) {
	book := &models.Book{ID: uuid.New()}

	if err := s.applyRequest(ctx, book, req); err != nil {
		return nil, err
	}

	if len(image) == 0 {
		return nil, appErrors.BadRequestError("Book image is required")
	}

	url, err := s.media.Store(ctx, "book", image, models.BookImageWidth, models.BookImageHeight)
	if err != nil {
		return nil, err
	}

	book.ImageURL = url

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, appErrors.DatabaseError("Failed to create book").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Book created", slog.String("bookId", book.ID.String()))

	return book, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id string, req *models.BookRequest, image []byte) (*models.Book, error) {
	bookID, err := utils.ParseID(id, "Book")
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, repoError(err, "Book", "fetch book")
	}

	if err := s.applyRequest(ctx, book, req); err != nil {
		return nil, err
	}

	if len(image) > 0 {
		url, err := s.media.Store(ctx, "book", image, models.BookImageWidth, models.BookImageHeight)
		if err != nil {
			return nil, err
		}

		book.ImageURL = url
	}

	// the category may have changed; callers re-read it when they need it
	book.Category = nil

	if err := s.books.UpdateBook(ctx, book); err != nil {
		return nil, repoError(err, "Book", "update book")
	}

	s.cache.invalidate(ctx, book.ID)

	return book, nil
}

func (s *bookService) RemoveBook(ctx context.Context, id string) error {
	bookID, err := utils.ParseID(id, "Book")
	if err != nil {
		return err
	}

	if err := s.books.RemoveBook(ctx, bookID); err != nil {
		return repoError(err, "Book", "remove book")
	}

	s.cache.invalidate(ctx, bookID)

	return nil
}
