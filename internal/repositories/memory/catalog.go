package memory

import (
	"context"
	"sort"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
)

type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) CreateCategory(_ context.Context, category *models.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	category.CreatedAt, category.UpdatedAt = now, now

	stored := *category
	s.categories[category.ID] = &stored

	return nil
}

func (r *CategoryRepository) UpdateCategory(_ context.Context, category *models.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok || existing.IsRemoved {
		return repository.ErrNotFound
	}

	existing.Name = category.Name
	existing.Slug = category.Slug
	existing.UpdatedAt = s.now()

	*category = *existing

	return nil
}

func (r *CategoryRepository) GetCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok || category.IsRemoved {
		return nil, repository.ErrNotFound
	}

	c := *category

	return &c, nil
}

func (r *CategoryRepository) ListCategories(_ context.Context, p models.Pagination) ([]*models.Category, int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := []*models.Category{}

	for _, category := range s.categories {
		if !category.IsRemoved {
			c := *category
			categories = append(categories, &c)
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return newestFirst(categories[i].CreatedAt, categories[j].CreatedAt, categories[i].ID, categories[j].ID)
	})

	return paginate(categories, p), len(categories), nil
}

func (r *CategoryRepository) RemoveCategory(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok || category.IsRemoved {
		return nil, repository.ErrNotFound
	}

	now := s.now()
	category.IsRemoved = true
	category.UpdatedAt = now

	unpublished := []uuid.UUID{}

	for _, book := range s.books {
		if book.CategoryID == id && book.IsPublished {
			book.IsPublished = false
			book.UpdatedAt = now
			unpublished = append(unpublished, book.ID)
		}
	}

	sort.Slice(unpublished, func(i, j int) bool { return unpublished[i].String() < unpublished[j].String() })

	return unpublished, nil
}

func (r *CategoryRepository) ListBookIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []uuid.UUID{}

	for _, book := range s.books {
		if book.CategoryID == id && book.Purchasable() {
			ids = append(ids, book.ID)
		}
	}

	return ids, nil
}

type AdvertiseRepository struct {
	store *Store
}

func (r *AdvertiseRepository) view(advertise *models.Advertise) *models.Advertise {
	a := *advertise

	if book, ok := r.store.books[advertise.BookID]; ok {
		b := *book
		a.Book = &b
	}

	return &a
}

func (r *AdvertiseRepository) CreateAdvertise(_ context.Context, advertise *models.Advertise) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	advertise.CreatedAt, advertise.UpdatedAt = now, now

	stored := *advertise
	stored.Book = nil
	s.advertises[advertise.ID] = &stored

	return nil
}

func (r *AdvertiseRepository) UpdateAdvertise(_ context.Context, advertise *models.Advertise) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.advertises[advertise.ID]
	if !ok || existing.IsRemoved {
		return repository.ErrNotFound
	}

	existing.ImageURL = advertise.ImageURL
	existing.BookID = advertise.BookID
	existing.IsPublished = advertise.IsPublished
	existing.UpdatedAt = s.now()

	advertise.UpdatedAt = existing.UpdatedAt

	return nil
}

func (r *AdvertiseRepository) GetAdvertiseByID(_ context.Context, id uuid.UUID) (*models.Advertise, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	advertise, ok := s.advertises[id]
	if !ok || advertise.IsRemoved {
		return nil, repository.ErrNotFound
	}

	return r.view(advertise), nil
}

func (r *AdvertiseRepository) ListAdvertises(_ context.Context, p models.Pagination, publishedOnly bool) ([]*models.Advertise, int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	advertises := []*models.Advertise{}

	for _, advertise := range s.advertises {
		if advertise.IsRemoved || (publishedOnly && !advertise.IsPublished) {
			continue
		}

		advertises = append(advertises, r.view(advertise))
	}

	sort.Slice(advertises, func(i, j int) bool {
		return newestFirst(advertises[i].CreatedAt, advertises[j].CreatedAt, advertises[i].ID, advertises[j].ID)
	})

	return paginate(advertises, p), len(advertises), nil
}

func (r *AdvertiseRepository) RemoveAdvertise(_ context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	advertise, ok := s.advertises[id]
	if !ok || advertise.IsRemoved {
		return repository.ErrNotFound
	}

	advertise.IsRemoved = true
	advertise.UpdatedAt = s.now()

	return nil
}
