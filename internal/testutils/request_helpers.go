package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/google/uuid"
)

// Context returns a background context carrying a discarding logger.
func Context() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return context.WithValue(context.Background(), middleware.LoggerKey, logger)
}

func UserClaims(userID uuid.UUID) *models.Claims {
	return &models.Claims{UserID: userID, Email: "test@example.com", Name: "Test User", ACL: models.ACLUser}
}

func AdminClaims(userID uuid.UUID) *models.Claims {
	return &models.Claims{UserID: userID, Email: "admin@example.com", Name: "Admin", ACL: models.ACLAdmin}
}

func CreateTestRequestWithContext(method, target string, body io.Reader, claims *models.Claims, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}
