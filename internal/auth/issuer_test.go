package auth_test

import (
	"testing"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/auth"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-secret-key-123456789012345"

func testUser() *models.User {
	return &models.User{
		ID:         uuid.New(),
		Name:       "Reader",
		Email:      "reader@example.com",
		ACL:        models.ACLAdmin,
		Gender:     "female",
		MelliCode:  "0012345678",
		Address:    "Somewhere 1",
		PostalCode: "12345",
		AvatarURL:  "https://cdn.example.com/avatar.png",
	}
}

func TestSignAndVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issuer := auth.NewIssuer(testKey, 24*time.Hour).WithClock(func() time.Time { return now })
	user := testUser()

	token, expiresAt, err := issuer.Sign(user)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)
	assert.Equal(t, 86400, issuer.ExpiresIn())

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.MelliCode, claims.MelliCode)
	assert.Equal(t, user.PostalCode, claims.PostalCode)
	assert.Equal(t, user.AvatarURL, claims.AvatarURL)
	assert.True(t, claims.IsAdmin())
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issuer := auth.NewIssuer(testKey, time.Hour).WithClock(func() time.Time { return now })

	token, _, err := issuer.Sign(testUser())
	require.NoError(t, err)

	t.Run("Expired", func(t *testing.T) {
		later := auth.NewIssuer(testKey, time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) })

		_, err := later.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Wrong Key", func(t *testing.T) {
		other := auth.NewIssuer("another-secret-key-00000000000", time.Hour).WithClock(func() time.Time { return now })

		_, err := other.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Other Signing Method", func(t *testing.T) {
		claims := &models.Claims{
			UserID: uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}

		hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testKey))
		require.NoError(t, err)

		_, err = issuer.Verify(hs512)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
