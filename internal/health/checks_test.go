package health

import (
	"context"
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func memoryConfig() *config.Config {
	return &config.Config{
		Database: config.Database{Driver: "memory"},
		OTel:     config.OTel{ServiceName: "bookstore-test"},
	}
}

func TestHealthObjectStorage(t *testing.T) {
	t.Run("bucket reachable", func(t *testing.T) {
		h, err := NewHealthHandler(memoryConfig(), &Endpoints{Media: pingerFunc(func(context.Context) error { return nil })})
		require.NoError(t, err)

		check := h.Measure(context.Background())
		assert.Equal(t, health.StatusOK, check.Status)
	})

	t.Run("bucket unreachable degrades", func(t *testing.T) {
		h, err := NewHealthHandler(memoryConfig(), &Endpoints{Media: pingerFunc(func(context.Context) error {
			return errors.New("access denied")
		})})
		require.NoError(t, err)

		check := h.Measure(context.Background())
		assert.Equal(t, health.StatusPartiallyAvailable, check.Status)
		assert.Contains(t, check.Failures, "object-storage")
	})
}
