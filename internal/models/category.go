package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsRemoved bool      `json:"is_removed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=3,max=60"`
	Slug string `json:"slug" validate:"required,min=3,max=60"`
}

type RemoveCategoryResponse struct {
	Category       *Category   `json:"category"`
	UnpublishedIDs []uuid.UUID `json:"unpublished_book_ids"`
}
