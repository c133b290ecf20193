package service

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/metrics"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// ObjectStore is the storage backend media is written to.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type MediaService interface {
	// Store crops and resizes an uploaded image to width×height and returns its public URL.
	Store(ctx context.Context, prefix string, data []byte, width, height int) (string, error)
}

type mediaService struct {
	store ObjectStore
}

func NewMediaService(store ObjectStore) MediaService {
	return &mediaService{store: store}
}

type imageFormat struct {
	format      imaging.Format
	contentType string
	ext         string
}

// webp has no encoder in the image libraries, so it is re-encoded as jpeg.
var imageFormats = map[string]imageFormat{
	"image/jpeg": {imaging.JPEG, "image/jpeg", ".jpg"},
	"image/png":  {imaging.PNG, "image/png", ".png"},
	"image/gif":  {imaging.GIF, "image/gif", ".gif"},
	"image/webp": {imaging.JPEG, "image/jpeg", ".jpg"},
}

func (s *mediaService) Store(ctx context.Context, prefix string, data []byte, width, height int) (string, error) {
	logger := middleware.LoggerFromContext(ctx)

	if len(data) == 0 {
		return "", appErrors.BadRequestError("Image is required")
	}

	detected := mimetype.Detect(data)

	target, ok := imageFormats[detected.String()]
	if !ok {
		logger.Warn("Rejected upload", slog.String("mime", detected.String()))
		return "", appErrors.BadRequestError("Unsupported image type " + detected.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", appErrors.BadRequestError("Image could not be decoded").WithError(err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, target.format); err != nil {
		return "", appErrors.InternalError("Failed to encode image").WithError(err)
	}

	key := prefix + "-" + uuid.NewString() + target.ext

	url, err := s.store.Put(ctx, key, target.contentType, buf.Bytes())
	if err != nil {
		metrics.RecordCollaboratorFailure(metrics.CollaboratorMedia)
		logger.Error("Image upload failed", slog.String("key", key), slog.String("error", err.Error()))

		return "", appErrors.ThirdPartyError("Failed to upload image").WithError(err)
	}

	return url, nil
}
