package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) CreateUser(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrConflict
		}
	}

	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	stored := *user
	s.users[user.ID] = &stored

	return nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := *user
			return &u, nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	u := *user

	return &u, nil
}

func (r *UserRepository) ListUsers(_ context.Context, excludeID uuid.UUID, p models.Pagination) ([]*models.User, int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []*models.User{}

	for _, user := range s.users {
		if user.ID != excludeID {
			u := *user
			users = append(users, &u)
		}
	}

	sort.Slice(users, func(i, j int) bool {
		return newestFirst(users[i].CreatedAt, users[j].CreatedAt, users[i].ID, users[j].ID)
	})

	return paginate(users, p), len(users), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}

	existing.AvatarURL = user.AvatarURL
	existing.Gender = user.Gender
	existing.MelliCode = user.MelliCode
	existing.Address = user.Address
	existing.PostalCode = user.PostalCode
	existing.UpdatedAt = s.now()

	*user = *existing

	return nil
}

func (r *UserRepository) SetForgetKey(_ context.Context, id uuid.UUID, key string, expiresAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}

	user.ForgetKey = key
	user.ExpireForgetKey = expiresAt
	user.UpdatedAt = s.now()

	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}

	user.Password = passwordHash
	user.ForgetKey = ""
	user.ExpireForgetKey = time.Time{}
	user.UpdatedAt = s.now()

	return nil
}

func (r *UserRepository) CountUsers(_ context.Context) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users), nil
}

type NotificationRepository struct {
	store *Store
}

func (r *NotificationRepository) CreateNotification(_ context.Context, notification *models.Notification) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	notification.CreatedAt, notification.UpdatedAt = now, now

	stored := *notification
	s.notifications[notification.ID] = &stored

	return nil
}

func (r *NotificationRepository) UpdateNotificationStatus(_ context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}

	now := s.now()
	notification.Status = status
	notification.ErrorMessage = errorMsg
	notification.UpdatedAt = now

	if status == models.StatusSent {
		notification.SentAt = &now
	}

	return nil
}
