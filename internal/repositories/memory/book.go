package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
)

type BookRepository struct {
	store *Store
}

func (r *BookRepository) CreateBook(_ context.Context, book *models.Book) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	book.CreatedAt, book.UpdatedAt = now, now
	book.IsRemoved = false

	stored := *book
	stored.Category = nil
	s.books[book.ID] = &stored

	return nil
}

func (r *BookRepository) UpdateBook(_ context.Context, book *models.Book) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.books[book.ID]
	if !ok || existing.IsRemoved {
		return repository.ErrNotFound
	}

	book.CreatedAt = existing.CreatedAt
	book.UpdatedAt = s.now()

	stored := *book
	stored.Category = nil
	s.books[book.ID] = &stored

	return nil
}

func (r *BookRepository) GetBookByID(_ context.Context, id uuid.UUID) (*models.Book, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok || book.IsRemoved {
		return nil, repository.ErrNotFound
	}

	return s.bookView(book), nil
}

func (r *BookRepository) GetPublishedBookByID(_ context.Context, id uuid.UUID) (*models.Book, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok || !book.Purchasable() {
		return nil, repository.ErrNotFound
	}

	return s.bookView(book), nil
}

func (r *BookRepository) ListBooks(_ context.Context, p models.Pagination) ([]*models.Book, int, error) {
	books := r.filter(func(b *models.Book) bool { return !b.IsRemoved })
	sortNewest(books)

	return paginate(books, p), len(books), nil
}

func (r *BookRepository) ListPublishedBooks(_ context.Context, filter models.BookFilter) ([]*models.Book, int, error) {
	search := strings.ToLower(filter.Search)

	books := r.filter(func(b *models.Book) bool {
		return b.Purchasable() && strings.Contains(strings.ToLower(b.Name), search)
	})

	less := bookLess(filter.SortField)
	sort.SliceStable(books, func(i, j int) bool {
		if filter.SortDesc {
			return less(books[j], books[i])
		}

		return less(books[i], books[j])
	})

	return paginate(books, filter.Pagination), len(books), nil
}

func (r *BookRepository) ListRelatedBooks(_ context.Context, book *models.Book, limit int) ([]*models.Book, int, error) {
	books := r.filter(func(b *models.Book) bool {
		return b.CategoryID == book.CategoryID && b.ID != book.ID && b.Purchasable()
	})
	sortNewest(books)

	total := len(books)
	if len(books) > limit {
		books = books[:limit]
	}

	return books, total, nil
}

func (r *BookRepository) RemoveBook(_ context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok || book.IsRemoved {
		return repository.ErrNotFound
	}

	book.IsRemoved = true
	book.UpdatedAt = s.now()

	return nil
}

func (r *BookRepository) CountBooks(_ context.Context) (int, error) {
	return len(r.filter(func(b *models.Book) bool { return !b.IsRemoved })), nil
}

func (r *BookRepository) filter(keep func(*models.Book) bool) []*models.Book {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	books := []*models.Book{}

	for _, book := range s.books {
		if keep(book) {
			books = append(books, s.bookView(book))
		}
	}

	return books
}

func sortNewest(books []*models.Book) {
	sort.Slice(books, func(i, j int) bool {
		return newestFirst(books[i].CreatedAt, books[j].CreatedAt, books[i].ID, books[j].ID)
	})
}

func bookLess(column string) func(a, b *models.Book) bool {
	switch column {
	case "name":
		return func(a, b *models.Book) bool { return a.Name < b.Name }
	case "price":
		return func(a, b *models.Book) bool { return a.Price.LessThan(b.Price) }
	case "year":
		return func(a, b *models.Book) bool { return a.Year < b.Year }
	case "discount":
		return func(a, b *models.Book) bool { return a.Discount < b.Discount }
	default:
		return func(a, b *models.Book) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}
