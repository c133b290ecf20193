package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	repository "github.com/aaravmahajanofficial/bookstore-platform/internal/repositories"
	"github.com/aaravmahajanofficial/bookstore-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

// Notifier delivers transactional email. Callers decide whether a failure
// matters; it is always returned.
type Notifier interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService) Notifier {
	return &notificationService{repo: repo, emailService: emailService}
}

func (n *notificationService) Send(ctx context.Context, msg *models.EmailMessage) error {
	logger := middleware.LoggerFromContext(ctx)

	var metadata json.RawMessage

	if msg.Context != nil {
		data, err := json.Marshal(msg.Context)
		if err != nil {
			return fmt.Errorf("failed to marshal email context: %w", err)
		}

		metadata = data
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Template:  msg.Template,
		Status:    models.StatusPending,
		Metadata:  metadata,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification record: %w", err)
	}

	if err := n.emailService.Send(ctx, msg); err != nil {
		metrics.RecordCollaboratorFailure(metrics.CollaboratorEmail)
		logger.Error("Email delivery failed",
			slog.String("notificationId", notification.ID.String()),
			slog.String("template", msg.Template),
			slog.String("error", err.Error()))

		if updateErr := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, err.Error()); updateErr != nil {
			logger.Error("Failed to record email failure", slog.String("error", updateErr.Error()))
		}

		return fmt.Errorf("failed to send email: %w", err)
	}

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return fmt.Errorf("email sent but failed to update notification status: %w", err)
	}

	return nil
}
