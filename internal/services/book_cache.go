package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/cache"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/google/uuid"
)

// bookCache keeps published books by id. Cache failures are logged and
// otherwise ignored; the database stays the source of truth.
type bookCache struct {
	cache cache.Cache
}

func (c bookCache) get(ctx context.Context, id uuid.UUID) (*models.Book, bool) {
	if c.cache == nil {
		return nil, false
	}

	var book models.Book

	found, err := c.cache.Get(ctx, cache.Key(cache.BookKeyPrefix, id.String()), &book)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Book cache read failed", slog.String("bookId", id.String()), slog.String("error", err.Error()))
		return nil, false
	}

	if !found {
		return nil, false
	}

	return &book, true
}

func (c bookCache) set(ctx context.Context, book *models.Book) {
	if c.cache == nil {
		return
	}

	if err := c.cache.Set(ctx, cache.Key(cache.BookKeyPrefix, book.ID.String()), book, 0); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Book cache write failed", slog.String("bookId", book.ID.String()), slog.String("error", err.Error()))
	}
}

func (c bookCache) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if c.cache == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.Key(cache.BookKeyPrefix, id.String()))
	}

	if err := c.cache.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Book cache invalidation failed", slog.Int("keys", len(keys)), slog.String("error", err.Error()))
	}
}
