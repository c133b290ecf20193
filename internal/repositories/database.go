package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

type Repositories struct {
	DB           *sql.DB
	Book         BookRepository
	Category     CategoryRepository
	Advertise    AdvertiseRepository
	User         UserRepository
	Cart         CartRepository
	Notification NotificationRepository
}

func New(cfg *config.Config) (*Repositories, error) {
	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := utils.WithDBTimeout(context.Background())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := Migrate(ctx, db); err != nil {
			db.Close()

			return nil, err
		}
	}

	return NewFromDB(db), nil
}

// NewFromDB wires every repository onto an already opened handle.
func NewFromDB(db *sql.DB) *Repositories {
	return &Repositories{
		DB:           db,
		Book:         NewBookRepo(db),
		Category:     NewCategoryRepo(db),
		Advertise:    NewAdvertiseRepo(db),
		User:         NewUserRepo(db),
		Cart:         NewCartRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}

	return r.DB.Close()
}
