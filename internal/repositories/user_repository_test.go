package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "avatar_url", "name", "email", "password", "acl", "gender", "melli_code", "address", "postal_code",
	"forget_key", "expire_forget_key", "created_at", "updated_at",
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepo(db)
	ctx := t.Context()
	insertSQL := regexp.QuoteMeta(`INSERT INTO users`)

	user := &models.User{ID: uuid.New(), Name: "Reader", Email: "reader@example.com", Password: "hash", ACL: models.ACLUser}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(insertSQL).
			WithArgs(user.ID, user.AvatarURL, user.Name, user.Email, user.Password, user.ACL).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.CreateUser(ctx, user))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WithArgs(user.ID, user.AvatarURL, user.Name, user.Email, user.Password, user.ACL).
			WillReturnError(&pq.Error{Code: "23505"})

		require.ErrorIs(t, repo.CreateUser(ctx, user), repository.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchema_EmailUniqueIgnoresCase(t *testing.T) {
	assert.Contains(t, repository.Schema, "CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))")
	assert.NotContains(t, repository.Schema, "email VARCHAR(60) NOT NULL UNIQUE")
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepo(db)
	ctx := t.Context()
	now := time.Now()
	id := uuid.New()
	expires := now.Add(2 * time.Minute)

	t.Run("Success With Pending Key", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE LOWER(email) = LOWER($1)`)).
			WithArgs("Reader@Example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "", "Reader", "reader@example.com", "hash", "user", "", "", "", "", "123456", expires, now, now))

		user, err := repo.GetUserByEmail(ctx, "Reader@Example.com")

		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, models.ACLUser, user.ACL)
		assert.Equal(t, "123456", user.ForgetKey)
		assert.WithinDuration(t, expires, user.ExpireForgetKey, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success Without Key", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE LOWER(email) = LOWER($1)`)).
			WithArgs("reader@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "", "Reader", "reader@example.com", "hash", "admin", "", "", "", "", "", nil, now, now))

		user, err := repo.GetUserByEmail(ctx, "reader@example.com")

		require.NoError(t, err)
		assert.Equal(t, models.ACLAdmin, user.ACL)
		assert.True(t, user.ExpireForgetKey.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE LOWER(email) = LOWER($1)`)).
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")

		require.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_PasswordReset(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepo(db)
	ctx := t.Context()
	id := uuid.New()
	expires := time.Now().Add(2 * time.Minute)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET forget_key = $1, expire_forget_key = $2`)).
		WithArgs("654321", expires, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetForgetKey(ctx, id, "654321", expires))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password = $1, forget_key = '', expire_forget_key = NULL`)).
		WithArgs("newhash", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(ctx, id, "newhash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepo(db)
	ctx := t.Context()
	now := time.Now()
	requester := uuid.New()
	other := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users WHERE id <> $1`)).
		WithArgs(requester).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
		WithArgs(requester, 5, 0).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(other.String(), "", "Other", "other@example.com", "hash", "user", "", "", "", "", "", nil, now, now))

	users, total, err := repo.ListUsers(ctx, requester, models.NewPagination(0, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, other, users[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
