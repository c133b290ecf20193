package service

import (
	"context"

	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

type AdvertiseService interface {
	ListAdvertises(ctx context.Context, p models.Pagination) ([]*models.Advertise, int, error)
	ListPublishedAdvertises(ctx context.Context, p models.Pagination) ([]*models.Advertise, int, error)
	GetAdvertise(ctx context.Context, id string) (*models.Advertise, error)
	CreateAdvertise(ctx context.Context, req *models.AdvertiseRequest, image []byte) (*models.Advertise, error)
	UpdateAdvertise(ctx context.Context, id string, req *models.AdvertiseRequest, image []byte) (*models.Advertise, error)
	RemoveAdvertise(ctx context.Context, id string) error
}

type advertiseService struct {
	advertises repository.AdvertiseRepository
	books      repository.BookRepository
	media      MediaService
}

func NewAdvertiseService(advertises repository.AdvertiseRepository, books repository.BookRepository, media MediaService) AdvertiseService {
	return &advertiseService{advertises: advertises, books: books, media: media}
}

func (s *advertiseService) ListAdvertises(ctx context.Context, p models.Pagination) ([]*models.Advertise, int, error) {
	return s.list(ctx, p, false)
}

func (s *advertiseService) ListPublishedAdvertises(ctx context.Context, p models.Pagination) ([]*models.Advertise, int, error) {
	return s.list(ctx, p, true)
}

func (s *advertiseService) list(ctx context.Context, p models.Pagination, publishedOnly bool) ([]*models.Advertise, int, error) {
	advertises, total, err := s.advertises.ListAdvertises(ctx, p, publishedOnly)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch advertises").WithError(err)
	}

	return advertises, total, nil
}

func (s *advertiseService) GetAdvertise(ctx context.Context, id string) (*models.Advertise, error) {
	advertiseID, err := utils.ParseID(id, "Advertise")
	if err != nil {
		return nil, err
	}

	advertise, err := s.advertises.GetAdvertiseByID(ctx, advertiseID)
	if err != nil {
		return nil, repoError(err, "Advertise", "fetch advertise")
	}

	return advertise, nil
}

func (s *advertiseService) resolveBook(ctx context.Context, raw string) (*models.Book, error) {
	bookID, err := utils.ParseID(raw, "Book")
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, repoError(err, "Book", "fetch book")
	}

	return book, nil
}

func (s *advertiseService) CreateAdvertise(ctx context.Context, req *models.AdvertiseRequest, image []byte) (*models.Advertise, error) {
	book, err := s.resolveBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	if len(image) == 0 {
		return nil, appErrors.BadRequestError("Advertise image is required")
	}

	url, err := s.media.Store(ctx, "advertise", image, models.AdvertiseImageWidth, models.AdvertiseImageHeight)
	if err != nil {
		return nil, err
	}

	advertise := &models.Advertise{
		ID:          uuid.New(),
		ImageURL:    url,
		BookID:      book.ID,
		IsPublished: req.IsPublished,
	}

	if err := s.advertises.CreateAdvertise(ctx, advertise); err != nil {
		return nil, appErrors.DatabaseError("Failed to create advertise").WithError(err)
	}

	advertise.Book = book

	return advertise, nil
}

func (s *advertiseService) UpdateAdvertise(ctx context.Context, id string, req *models.AdvertiseRequest, image []byte) (*models.Advertise, error) {
	advertiseID, err := utils.ParseID(id, "Advertise")
	if err != nil {
		return nil, err
	}

	advertise, err := s.advertises.GetAdvertiseByID(ctx, advertiseID)
	if err != nil {
		return nil, repoError(err, "Advertise", "fetch advertise")
	}

	book, err := s.resolveBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	if len(image) > 0 {
		url, err := s.media.Store(ctx, "advertise", image, models.AdvertiseImageWidth, models.AdvertiseImageHeight)
		if err != nil {
			return nil, err
		}

		advertise.ImageURL = url
	}

	advertise.BookID = book.ID
	advertise.IsPublished = req.IsPublished

	if err := s.advertises.UpdateAdvertise(ctx, advertise); err != nil {
		return nil, repoError(err, "Advertise", "update advertise")
	}

	advertise.Book = book

	return advertise, nil
}

func (s *advertiseService) RemoveAdvertise(ctx context.Context, id string) error {
	advertiseID, err := utils.ParseID(id, "Advertise")
	if err != nil {
		return err
	}

	if err := s.advertises.RemoveAdvertise(ctx, advertiseID); err != nil {
		return repoError(err, "Advertise", "remove advertise")
	}

	return nil
}
