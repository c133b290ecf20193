package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// Pinger is satisfied by the object store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Endpoints struct {
	// Redis is false when the service runs without a redis instance.
	Redis bool
	Media Pinger
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := make([]health.Config, 0, 3)

	if cfg.Database.Driver != "memory" {
		checks = append(checks, health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	}

	if endpoints.Redis {
		// the cache and rate limiter degrade gracefully, so redis never fails the probe
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	if endpoints.Media != nil {
		checks = append(checks, health.Config{
			Name:      "object-storage",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check: func(ctx context.Context) error {
				return endpoints.Media.Ping(ctx)
			},
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.OTel.ServiceName,
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
