// Package auth signs and verifies the bearer credentials handed to users.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Issuer struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

func NewIssuer(key string, expiry time.Duration) *Issuer {
	return &Issuer{key: []byte(key), expiry: expiry, now: time.Now}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Sign issues a token carrying every profile field of user.
func (i *Issuer) Sign(user *models.User) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.expiry)

	claims := &models.Claims{
		UserID:     user.ID,
		AvatarURL:  user.AvatarURL,
		Name:       user.Name,
		Email:      user.Email,
		ACL:        user.ACL,
		Gender:     user.Gender,
		MelliCode:  user.MelliCode,
		Address:    user.Address,
		PostalCode: user.PostalCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Verify parses token and returns its claims. Any failure, including a
// signing method other than HS256, wraps ErrInvalidToken.
func (i *Issuer) Verify(token string) (*models.Claims, error) {
	claims := &models.Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExpiresIn is the credential lifetime in seconds.
func (i *Issuer) ExpiresIn() int {
	return int(i.expiry.Seconds())
}
