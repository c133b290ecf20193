package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ACL string

const (
	ACLUser  ACL = "user"
	ACLAdmin ACL = "admin"

	AvatarSize = 320
)

type User struct {
	ID              uuid.UUID `json:"id"`
	AvatarURL       string    `json:"avatar_url"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Password        string    `json:"-"`
	ACL             ACL       `json:"acl"`
	Gender          string    `json:"gender"`
	MelliCode       string    `json:"melli_code"`
	Address         string    `json:"address"`
	PostalCode      string    `json:"postal_code"`
	ForgetKey       string    `json:"-"`
	ExpireForgetKey time.Time `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=60"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,min=3,max=60"`
}

// for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Message   string `json:"message,omitempty"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgetPasswordResponse echoes the key's expiry in unix milliseconds so
// clients can render a countdown.
type ForgetPasswordResponse struct {
	Email           string `json:"email"`
	ExpireForgetKey int64  `json:"expire_forget_key"`
	EmailSent       bool   `json:"email_sent"`
}

type VerifyKeyRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ForgetKey string `json:"forget_key" validate:"required,len=6,numeric"`
}

type ConfirmPasswordRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ForgetKey string `json:"forget_key" validate:"required,len=6,numeric"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

type UpdateProfileRequest struct {
	Gender     string `json:"gender" validate:"omitempty,max=20"`
	MelliCode  string `json:"melli_code" validate:"omitempty,numeric,max=10"`
	Address    string `json:"address" validate:"omitempty,max=1000"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
}

// Claims embeds the profile so downstream requests need no lookup. Any
// profile change therefore has to re-issue the token.
type Claims struct {
	UserID     uuid.UUID `json:"user_id"`
	AvatarURL  string    `json:"avatar_url"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ACL        ACL       `json:"acl"`
	Gender     string    `json:"gender"`
	MelliCode  string    `json:"melli_code"`
	Address    string    `json:"address"`
	PostalCode string    `json:"postal_code"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.ACL == ACLAdmin
}
