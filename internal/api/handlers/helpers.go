package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
)

// DefaultMaxUploadSize caps multipart bodies when no limit is configured.
const DefaultMaxUploadSize int64 = 5 << 20

// requireClaims fetches the authenticated caller or writes a 401.
func requireClaims(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Request without user claims")
		response.Error(w, appErrors.UnauthorizedError("Authentication required"))

		return nil, false
	}

	return claims, true
}

func paginated[T any](w http.ResponseWriter, items []T, total int, p models.Pagination) {
	if items == nil {
		items = []T{}
	}

	response.Success(w, http.StatusOK, models.PaginatedResponse{
		Data:  items,
		Count: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// parseMultipart reads a multipart form of at most maxSize bytes and returns
// the named file, or nil when the field is absent.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64, field string) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, appErrors.BadRequestError("Upload exceeds the size limit").
				WithDetail("maximum is " + strconv.FormatInt(maxSize, 10) + " bytes")
		}

		return nil, appErrors.BadRequestError("Invalid multipart form").WithError(err)
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}

		return nil, appErrors.BadRequestError("Invalid " + field + " upload").WithError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.BadRequestError("Failed to read " + field + " upload").WithError(err)
	}

	return data, nil
}

func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.BadRequestError("Field " + key + " must be a whole number")
	}

	return n, nil
}

// formBool treats a missing field as false.
func formBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, appErrors.BadRequestError("Field " + key + " must be true or false")
	}

	return b, nil
}
