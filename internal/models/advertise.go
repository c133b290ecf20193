package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AdvertiseImageWidth  = 1200
	AdvertiseImageHeight = 400
)

type Advertise struct {
	ID          uuid.UUID `json:"id"`
	ImageURL    string    `json:"image_url"`
	BookID      uuid.UUID `json:"book_id"`
	Book        *Book     `json:"book,omitempty"`
	IsPublished bool      `json:"is_published"`
	IsRemoved   bool      `json:"is_removed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AdvertiseRequest struct {
	BookID      string `json:"book_id" validate:"required"`
	IsPublished bool   `json:"is_published"`
}
