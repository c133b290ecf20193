package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/auth"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	rateScopeLogin = "login"
	rateScopeReset  = "reset"
	rateScopeVerify = "verify"

	resetKeyDigits = 6
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserInfo(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, requesterID uuid.UUID, p models.Pagination) ([]*models.User, int, error)
	ForgetPassword(ctx context.Context, email string) (*models.ForgetPasswordResponse, error)
	ResendKey(ctx context.Context, email string) (*models.ForgetPasswordResponse, error)
	VerifyKey(ctx context.Context, req *models.VerifyKeyRequest) error
	ConfirmPassword(ctx context.Context, req *models.ConfirmPasswordRequest) error
	// UpdateProfile and DeleteAvatar return a fresh token because the token
	// carries the profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest, avatar []byte) (*models.LoginResponse, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) (*models.LoginResponse, error)
}

type userService struct {
	repo     repository.UserRepository
	limiter  repository.RateLimitRepository
	issuer   *auth.Issuer
	notifier Notifier
	media    MediaService
	cfg      config.Security
	now      func() time.Time
}

func NewUserService(
	repo repository.UserRepository,
	limiter repository.RateLimitRepository,
	issuer *auth.Issuer,
	notifier Notifier,
	media MediaService,
	cfg config.Security,
) UserService {
	return &userService{
		repo:     repo,
		limiter:  limiter,
		issuer:   issuer,
		notifier: notifier,
		media:    media,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	acl := models.ACLUser
	if s.cfg.AdminEmail != "" && strings.EqualFold(req.Email, s.cfg.AdminEmail) {
		acl = models.ACLAdmin
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     utils.Sanitize(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		ACL:      acl,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, appErrors.DuplicateEntryBadRequest("User with this email already exists")
		}

		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("User registered", slog.String("userId", user.ID.String()), slog.String("acl", string(acl)))

	return user, nil
}

// checkRate consumes one attempt in scope. A nil limiter allows everything.
func (s *userService) checkRate(ctx context.Context, scope, email string) error {
	if s.limiter == nil {
		return nil
	}

	allowed, _, retryAfter, err := s.limiter.CheckRateLimit(ctx, scope, strings.ToLower(email))
	if err != nil {
		return appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return appErrors.TooManyRequestsError("Too many attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
	}

	return nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.checkRate(ctx, rateScopeLogin, req.Email); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.InvalidCredentialError("Invalid email or password")
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, appErrors.InvalidCredentialError("Invalid email or password")
	}

	return s.tokenFor(user, "Login successful")
}

func (s *userService) tokenFor(user *models.User, message string) (*models.LoginResponse, error) {
	token, _, err := s.issuer.Sign(user)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate token").WithError(err)
	}

	return &models.LoginResponse{Token: token, ExpiresIn: s.issuer.ExpiresIn(), Message: message}, nil
}

func (s *userService) GetUserInfo(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "User", "fetch user")
	}

	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, requesterID uuid.UUID, p models.Pagination) ([]*models.User, int, error) {
	users, total, err := s.repo.ListUsers(ctx, requesterID, p)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch users").WithError(err)
	}

	return users, total, nil
}

func (s *userService) ForgetPassword(ctx context.Context, email string) (*models.ForgetPasswordResponse, error) {
	return s.issueResetKey(ctx, email)
}

func (s *userService) ResendKey(ctx context.Context, email string) (*models.ForgetPasswordResponse, error) {
	return s.issueResetKey(ctx, email)
}

func (s *userService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.BadRequestError("No user is registered with this email")
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	return user, nil
}

func (s *userService) issueResetKey(ctx context.Context, email string) (*models.ForgetPasswordResponse, error) {
	logger := middleware.LoggerFromContext(ctx)

	if err := s.checkRate(ctx, rateScopeReset, email); err != nil {
		return nil, err
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	key, err := generateResetKey()
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate reset key").WithError(err)
	}

	expiresAt := s.now().Add(s.cfg.ResetKeyTTL)

	if err := s.repo.SetForgetKey(ctx, user.ID, key, expiresAt); err != nil {
		return nil, repoError(err, "User", "store reset key")
	}

	sent := true

	err = s.notifier.Send(ctx, &models.EmailMessage{
		To:       user.Email,
		Subject:  "Password reset",
		Template: models.TemplatePasswordReset,
		Context: map[string]any{
			"name":       user.Name,
			"key":        key,
			"expires_in": int(s.cfg.ResetKeyTTL.Seconds()),
		},
	})
	if err != nil {
		sent = false

		logger.Warn("Reset key email was not delivered", slog.String("userId", user.ID.String()), slog.String("error", err.Error()))
	}

	return &models.ForgetPasswordResponse{
		Email:           user.Email,
		ExpireForgetKey: expiresAt.UnixMilli(),
		EmailSent:       sent,
	}, nil
}

func generateResetKey() (string, error) {
	upper := big.NewInt(1)
	for range resetKeyDigits {
		upper.Mul(upper, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", resetKeyDigits, n.Int64()), nil
}

// checkResetKey is shared by VerifyKey and ConfirmPassword. A key is valid up
// to and including its expiry instant. A wrong guess burns the pending key.
func (s *userService) checkResetKey(ctx context.Context, email, key string) (*models.User, error) {
	if err := s.checkRate(ctx, rateScopeVerify, email); err != nil {
		return nil, err
	}

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.ForgetKey == "" {
		return nil, appErrors.BadRequestError("Reset key is incorrect")
	}

	if subtle.ConstantTimeCompare([]byte(user.ForgetKey), []byte(key)) != 1 {
		if err := s.repo.SetForgetKey(ctx, user.ID, "", s.now()); err != nil {
			return nil, repoError(err, "User", "clear reset key")
		}

		middleware.LoggerFromContext(ctx).Warn("Wrong reset key, pending key revoked", slog.String("userId", user.ID.String()))

		return nil, appErrors.BadRequestError("Reset key is incorrect").WithDetail("request a new key")
	}

	if s.now().After(user.ExpireForgetKey) {
		return nil, appErrors.BadRequestError("Reset key has expired")
	}

	return user, nil
}

func (s *userService) VerifyKey(ctx context.Context, req *models.VerifyKeyRequest) error {
	_, err := s.checkResetKey(ctx, req.Email, req.ForgetKey)
	return err
}

func (s *userService) ConfirmPassword(ctx context.Context, req *models.ConfirmPasswordRequest) error {
	user, err := s.checkResetKey(ctx, req.Email, req.ForgetKey)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.InternalError("Failed to secure password").WithError(err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return repoError(err, "User", "update password")
	}

	middleware.LoggerFromContext(ctx).Info("Password reset completed", slog.String("userId", user.ID.String()))

	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest, avatar []byte) (*models.LoginResponse, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(avatar) > 0 {
		url, err := s.media.Store(ctx, "avatar", avatar, models.AvatarSize, models.AvatarSize)
		if err != nil {
			return nil, err
		}

		user.AvatarURL = url
	}

	user.Gender = utils.Sanitize(req.Gender)
	user.MelliCode = utils.Sanitize(req.MelliCode)
	user.Address = utils.Sanitize(req.Address)
	user.PostalCode = utils.Sanitize(req.PostalCode)

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, repoError(err, "User", "update profile")
	}

	return s.tokenFor(user, "Profile updated")
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uuid.UUID) (*models.LoginResponse, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = ""

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, repoError(err, "User", "update profile")
	}

	return s.tokenFor(user, "Avatar removed")
}
