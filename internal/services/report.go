package service

import (
	"context"

	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ReportService interface {
	AdminChart(ctx context.Context) (*models.AdminChart, error)
	UserChart(ctx context.Context, userID uuid.UUID) (*models.UserChart, error)
}

type reportService struct {
	books repository.BookRepository
	carts repository.CartRepository
	users repository.UserRepository
}

func NewReportService(books repository.BookRepository, carts repository.CartRepository, users repository.UserRepository) ReportService {
	return &reportService{books: books, carts: carts, users: users}
}

// AdminChart runs its three aggregate queries concurrently.
func (s *reportService) AdminChart(ctx context.Context) (*models.AdminChart, error) {
	var (
		chart models.AdminChart
		stats models.CartStats
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats, err = s.carts.ClosedCartStats(gctx)

		return err
	})

	g.Go(func() error {
		var err error
		chart.BooksCount, err = s.books.CountBooks(gctx)

		return err
	})

	g.Go(func() error {
		var err error
		chart.UsersCount, err = s.users.CountUsers(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, appErrors.DatabaseError("Failed to build admin chart").WithError(err)
	}

	chart.TotalPrice = stats.Total
	chart.CartsCount = stats.Count

	return &chart, nil
}

func (s *reportService) UserChart(ctx context.Context, userID uuid.UUID) (*models.UserChart, error) {
	stats, err := s.carts.UserClosedCartStats(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to build user chart").WithError(err)
	}

	return &models.UserChart{TotalPrice: stats.Total, CartsCount: stats.Count}, nil
}
