package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with a uniqueness rule,
	// such as a second open cart for the same user.
	ErrConflict = errors.New("record conflicts with an existing one")
)

// StockConflictError reports the book whose conditional stock decrement
// matched no row during checkout.
type StockConflictError struct {
	BookID uuid.UUID
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s", e.BookID)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	return false
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}
