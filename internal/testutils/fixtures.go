package testutils

import (
	"context"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func SeedCategory(t *testing.T, repos *repository.Repositories) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: "Novels", Slug: "novels-" + uuid.NewString()[:8]}
	require.NoError(t, repos.Category.CreateCategory(context.Background(), category))

	return category
}

// SeedBook stores a published book priced 100000 with a 10% discount, so its
// cart snapshot price is 90000.
func SeedBook(t *testing.T, repos *repository.Repositories, categoryID uuid.UUID, stock int) *models.Book {
	t.Helper()

	book := &models.Book{
		ID:            uuid.New(),
		Name:          "Book " + uuid.NewString()[:8],
		Price:         decimal.NewFromInt(100000),
		Discount:      10,
		NumberInStock: stock,
		IsPublished:   true,
		CategoryID:    categoryID,
	}
	require.NoError(t, repos.Book.CreateBook(context.Background(), book))

	return book
}

func SeedUser(t *testing.T, repos *repository.Repositories, email string) *models.User {
	t.Helper()

	user := &models.User{ID: uuid.New(), Name: "Reader", Email: email, ACL: models.ACLUser}
	require.NoError(t, repos.User.CreateUser(context.Background(), user))

	return user
}
