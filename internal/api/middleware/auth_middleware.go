package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/auth"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// TokenHeader is the legacy header some clients use instead of Authorization.
const TokenHeader = "x-auth-token"

type AuthMiddleware struct {
	issuer *auth.Issuer
}

func NewAuthMiddleware(issuer *auth.Issuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}

		return header
	}

	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

// Authenticate rejects requests without a credential with 401 and requests
// with an unusable one with 400.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			logger.Warn("Missing credential")
			response.Error(w, errors.UnauthorizedError("Access denied. No token provided"))

			return
		}

		claims, err := m.issuer.Verify(tokenString)
		if err != nil {
			logger.Warn("Credential rejected", slog.String("error", err.Error()))
			response.Error(w, errors.InvalidCredentialError("Invalid token"))

			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin authenticates the request itself, then rejects non-admin claims with 403.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Admin access denied")
			response.Error(w, errors.ForbiddenError("Access denied"))

			return
		}

		next.ServeHTTP(w, r)
	}))
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}
