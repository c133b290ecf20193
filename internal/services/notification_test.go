package service

import (
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/repositories/memory"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/services/mocks"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Send(t *testing.T) {
	ctx := testutils.Context()

	msg := &models.EmailMessage{
		To:       "reader@example.com",
		Subject:  "Your order has been placed",
		Template: models.TemplateCheckout,
		Context:  map[string]any{"tracking_code": "abc"},
	}

	t.Run("Success - Marked as sent", func(t *testing.T) {
		repos, store := memory.New()
		email := new(mocks.EmailService)
		email.On("Send", mock.Anything, msg).Return(nil).Once()

		err := NewNotificationService(repos.Notification, email).Send(ctx, msg)
		require.NoError(t, err)

		notifications := store.Notifications()
		require.Len(t, notifications, 1)
		assert.Equal(t, models.StatusSent, notifications[0].Status)
		assert.Equal(t, msg.To, notifications[0].Recipient)
		assert.NotNil(t, notifications[0].SentAt)
		assert.JSONEq(t, `{"tracking_code":"abc"}`, string(notifications[0].Metadata))

		email.AssertExpectations(t)
	})

	t.Run("Failure - Marked as failed and returned", func(t *testing.T) {
		repos, store := memory.New()
		email := new(mocks.EmailService)
		email.On("Send", mock.Anything, msg).Return(errors.New("status code: 502")).Once()

		err := NewNotificationService(repos.Notification, email).Send(ctx, msg)
		require.Error(t, err)

		notifications := store.Notifications()
		require.Len(t, notifications, 1)
		assert.Equal(t, models.StatusFailed, notifications[0].Status)
		assert.Contains(t, notifications[0].ErrorMessage, "502")
		assert.Nil(t, notifications[0].SentAt)
	})
}
