package utils

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError(err.Error()))

		return false
	}

	return Validate(w, dest, validate)
}

// Validate writes a 400 listing every failed field when dest is invalid.
func Validate(w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)

			return false
		}

		response.Error(w, appErrors.BadRequestError("Invalid input data"))

		return false
	}

	return true
}

// ParseID parses an entity identifier. Anything that is not a UUID is a malformed reference.
func ParseID(raw, entity string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, appErrors.InvalidReferenceError(entity + " ID is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.InvalidReferenceError("Invalid " + entity + " ID format").WithError(err)
	}

	return id, nil
}

// ParsePagination reads ?page= and ?limit=. Unparsable values fall back to the defaults.
func ParsePagination(r *http.Request) models.Pagination {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = 0
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil {
		limit = models.DefaultPageLimit
	}

	return models.NewPagination(page, limit)
}
