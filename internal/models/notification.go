package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
)

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

const (
	TemplateCheckout      = "checkout"
	TemplatePasswordReset = "password-reset"
)

type Notification struct {
	ID           uuid.UUID          `json:"id"`
	Type         NotificationType   `json:"type"`
	Recipient    string             `json:"recipient"`
	Subject      string             `json:"subject,omitempty"`
	Template     string             `json:"template"`
	Status       NotificationStatus `json:"status"`
	ErrorMessage string             `json:"error,omitempty"`
	Metadata     json.RawMessage    `json:"metadata,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	SentAt       *time.Time         `json:"sent_at,omitempty"`
}

// EmailMessage is a templated transactional email. Context is handed to the
// template engine as-is.
type EmailMessage struct {
	From     string         `json:"from,omitempty"`
	To       string         `json:"to" validate:"required,email"`
	Subject  string         `json:"subject" validate:"required"`
	Template string         `json:"template" validate:"required"`
	Context  map[string]any `json:"context,omitempty"`
}
