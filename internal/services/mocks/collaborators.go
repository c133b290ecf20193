// Package mocks holds testify mocks of the service layer and its collaborators.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (_m *Notifier) Send(ctx context.Context, msg *models.EmailMessage) error {
	return _m.Called(ctx, msg).Error(0)
}

type MediaService struct {
	mock.Mock
}

func (_m *MediaService) Store(ctx context.Context, prefix string, data []byte, width, height int) (string, error) {
	ret := _m.Called(ctx, prefix, data, width, height)
	return ret.String(0), ret.Error(1)
}

type ObjectStore struct {
	mock.Mock
}

func (_m *ObjectStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	ret := _m.Called(ctx, key, contentType, data)
	return ret.String(0), ret.Error(1)
}

type EmailService struct {
	mock.Mock
}

func (_m *EmailService) Send(ctx context.Context, msg *models.EmailMessage) error {
	return _m.Called(ctx, msg).Error(0)
}

func (_m *EmailService) GetSendGridClient() *sendgrid.Client {
	ret := _m.Called()

	if client, ok := ret.Get(0).(*sendgrid.Client); ok {
		return client
	}

	return nil
}

type RateLimiter struct {
	mock.Mock
}

func (_m *RateLimiter) CheckRateLimit(ctx context.Context, scope, identifier string) (bool, int, int, error) {
	ret := _m.Called(ctx, scope, identifier)
	return ret.Bool(0), ret.Int(1), ret.Int(2), ret.Error(3)
}
