package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserService struct {
	mock.Mock
}

func login(v any) *models.LoginResponse {
	if v == nil {
		return nil
	}

	return v.(*models.LoginResponse)
}

func forget(v any) *models.ForgetPasswordResponse {
	if v == nil {
		return nil
	}

	return v.(*models.ForgetPasswordResponse)
}

func user(v any) *models.User {
	if v == nil {
		return nil
	}

	return v.(*models.User)
}

func (_m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	ret := _m.Called(ctx, req)
	return user(ret.Get(0)), ret.Error(1)
}

func (_m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	ret := _m.Called(ctx, req)
	return login(ret.Get(0)), ret.Error(1)
}

func (_m *UserService) GetUserInfo(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ret := _m.Called(ctx, userID)
	return user(ret.Get(0)), ret.Error(1)
}

func (_m *UserService) ListUsers(ctx context.Context, requesterID uuid.UUID, p models.Pagination) ([]*models.User, int, error) {
	ret := _m.Called(ctx, requesterID, p)

	var users []*models.User
	if v := ret.Get(0); v != nil {
		users = v.([]*models.User)
	}

	return users, ret.Int(1), ret.Error(2)
}

func (_m *UserService) ForgetPassword(ctx context.Context, email string) (*models.ForgetPasswordResponse, error) {
	ret := _m.Called(ctx, email)
	return forget(ret.Get(0)), ret.Error(1)
}

func (_m *UserService) ResendKey(ctx context.Context, email string) (*models.ForgetPasswordResponse, error) {
	ret := _m.Called(ctx, email)
	return forget(ret.Get(0)), ret.Error(1)
}

func (_m *UserService) VerifyKey(ctx context.Context, req *models.VerifyKeyRequest) error {
	return _m.Called(ctx, req).Error(0)
}

func (_m *UserService) ConfirmPassword(ctx context.Context, req *models.ConfirmPasswordRequest) error {
	return _m.Called(ctx, req).Error(0)
}

func (_m *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest, avatar []byte) (*models.LoginResponse, error) {
	ret := _m.Called(ctx, userID, req, avatar)
	return login(ret.Get(0)), ret.Error(1)
}

func (_m *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) (*models.LoginResponse, error) {
	ret := _m.Called(ctx, userID)
	return login(ret.Get(0)), ret.Error(1)
}

type ReportService struct {
	mock.Mock
}

func (_m *ReportService) AdminChart(ctx context.Context) (*models.AdminChart, error) {
	ret := _m.Called(ctx)

	var chart *models.AdminChart
	if v := ret.Get(0); v != nil {
		chart = v.(*models.AdminChart)
	}

	return chart, ret.Error(1)
}

func (_m *ReportService) UserChart(ctx context.Context, userID uuid.UUID) (*models.UserChart, error) {
	ret := _m.Called(ctx, userID)

	var chart *models.UserChart
	if v := ret.Get(0); v != nil {
		chart = v.(*models.UserChart)
	}

	return chart, ret.Error(1)
}
