// Package memory keeps every repository in process memory. It mirrors the
// Postgres repositories closely enough to back service tests and local runs.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
)

// Store is shared by all repositories so cross-table operations, such as
// checkout touching carts and books, stay atomic under one lock.
type Store struct {
	mu            sync.Mutex
	now           func() time.Time
	books         map[uuid.UUID]*models.Book
	categories    map[uuid.UUID]*models.Category
	advertises    map[uuid.UUID]*models.Advertise
	users         map[uuid.UUID]*models.User
	carts         map[uuid.UUID]*models.Cart
	lines         map[uuid.UUID]*models.Order
	notifications map[uuid.UUID]*models.Notification
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		books:         map[uuid.UUID]*models.Book{},
		categories:    map[uuid.UUID]*models.Category{},
		advertises:    map[uuid.UUID]*models.Advertise{},
		users:         map[uuid.UUID]*models.User{},
		carts:         map[uuid.UUID]*models.Cart{},
		lines:         map[uuid.UUID]*models.Order{},
		notifications: map[uuid.UUID]*models.Notification{},
	}
}

// New returns a full set of repositories over a fresh store.
func New() (*repository.Repositories, *Store) {
	store := NewStore()

	return &repository.Repositories{
		Book:         &BookRepository{store: store},
		Category:     &CategoryRepository{store: store},
		Advertise:    &AdvertiseRepository{store: store},
		User:         &UserRepository{store: store},
		Cart:         &CartRepository{store: store},
		Notification: &NotificationRepository{store: store},
	}, store
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

// Book returns a copy of a stored book regardless of its flags.
func (s *Store) Book(id uuid.UUID) (models.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return models.Book{}, false
	}

	return *book, true
}

// Notifications returns copies of every recorded notification, oldest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}

// bookView copies a book and attaches its category. Callers hold the lock.
func (s *Store) bookView(book *models.Book) *models.Book {
	view := *book

	if category, ok := s.categories[book.CategoryID]; ok {
		c := *category
		view.Category = &c
	}

	return &view
}

func paginate[T any](items []T, p models.Pagination) []T {
	start := min(p.Skip(), len(items))
	end := start + min(max(p.Limit, 0), len(items)-start)

	return items[start:end]
}

// newestFirst orders by creation time, newest first, with the id as tie breaker.
func newestFirst(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}

	return idA.String() < idB.String()
}

var (
	_ repository.BookRepository         = (*BookRepository)(nil)
	_ repository.CategoryRepository     = (*CategoryRepository)(nil)
	_ repository.AdvertiseRepository    = (*AdvertiseRepository)(nil)
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.CartRepository         = (*CartRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
)
