package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	service "github.com/aaravmahajanofficial/bookstore-platform/internal/services"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService   service.UserService
	validator     *validator.Validate
	maxUploadSize int64
}

func NewUserHandler(userService service.UserService, maxUploadSize int64) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New(), maxUploadSize: maxUploadSize}
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register godoc
//	@Summary		Register a new user
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"User registration details"
//	@Success		201		{object}	models.User
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or email already registered"
//	@Failure		500		{object}	response.ErrorResponse
//	@Router			/api/user/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid register input")
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Warn("User registration failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, user)
	}
}

// Login godoc
//	@Summary		Log in and receive a token
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest	true	"Email and password"
//	@Success		200			{object}	models.LoginResponse
//	@Failure		400			{object}	response.ErrorResponse	"Invalid email or password"
//	@Failure		429			{object}	response.ErrorResponse	"Too many attempts"
//	@Router			/api/user/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// GetUserInfo godoc
//	@Summary		Current user profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User
//	@Failure		401	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/user/user-info [get]
func (h *UserHandler) GetUserInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		user, err := h.userService.GetUserInfo(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Failed to fetch user info", slog.String("userId", claims.UserID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

// ListUsers godoc
//	@Summary		List users other than the caller
//	@Tags			Users
//	@Produce		json
//	@Param			page	query		int	false	"Page, starting at 0"
//	@Param			limit	query		int	false	"Page size (default 5)"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.User}
//	@Failure		403		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/user/users [get]
func (h *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		p := utils.ParsePagination(r)

		users, total, err := h.userService.ListUsers(r.Context(), claims.UserID, p)
		if err != nil {
			logger.Error("Failed to list users", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		paginated(w, users, total, p)
	}
}

// ForgetPassword godoc
//	@Summary		Email a password reset key
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.ForgetPasswordRequest	true	"Account email"
//	@Success		200		{object}	models.ForgetPasswordResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Router			/api/user/forget-password [post]
func (h *UserHandler) ForgetPassword() http.HandlerFunc {
	return h.resetKey(h.userService.ForgetPassword)
}

// ResendKey godoc
//	@Summary		Issue a fresh password reset key
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.ForgetPasswordRequest	true	"Account email"
//	@Success		200		{object}	models.ForgetPasswordResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Router			/api/user/resend-key [post]
func (h *UserHandler) ResendKey() http.HandlerFunc {
	return h.resetKey(h.userService.ResendKey)
}

func (h *UserHandler) resetKey(issue func(ctx context.Context, email string) (*models.ForgetPasswordResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.ForgetPasswordRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := issue(r.Context(), req.Email)
		if err != nil {
			logger.Warn("Reset key not issued", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// VerifyKey godoc
//	@Summary		Check a password reset key
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.VerifyKeyRequest	true	"Email and key"
//	@Success		200		{object}	messageResponse
//	@Failure		400		{object}	response.ErrorResponse	"Key incorrect or expired"
//	@Failure		429		{object}	response.ErrorResponse
//	@Router			/api/user/verify-key [post]
func (h *UserHandler) VerifyKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.VerifyKeyRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.userService.VerifyKey(r.Context(), &req); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, messageResponse{Message: "Reset key is valid"})
	}
}

// ConfirmPassword godoc
//	@Summary		Set a new password with a reset key
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.ConfirmPasswordRequest	true	"Email, key and new password"
//	@Success		200		{object}	messageResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Router			/api/user/confirm-password [post]
func (h *UserHandler) ConfirmPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.ConfirmPasswordRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := h.userService.ConfirmPassword(r.Context(), &req); err != nil {
			logger.Warn("Password reset rejected", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, messageResponse{Message: "Password has been changed"})
	}
}

// UpdateProfile godoc
//	@Summary		Edit the caller's profile
//	@Description	Accepts multipart form fields gender, melli_code, address, postal_code and an optional avatar file, or the same fields as JSON.
//	@Tags			Users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			avatar	formData	file	false	"Avatar image"
//	@Success		200		{object}	models.LoginResponse	"Fresh token carrying the new profile"
//	@Failure		400		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/user/edit-user [put]
func (h *UserHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var (
			req    models.UpdateProfileRequest
			avatar []byte
		)

		if isMultipart(r) {
			var err error

			avatar, err = parseMultipart(w, r, h.maxUploadSize, "avatar")
			if err != nil {
				response.Error(w, err)
				return
			}

			req = models.UpdateProfileRequest{
				Gender:     r.FormValue("gender"),
				MelliCode:  r.FormValue("melli_code"),
				Address:    r.FormValue("address"),
				PostalCode: r.FormValue("postal_code"),
			}

			if !utils.Validate(w, &req, h.validator) {
				return
			}
		} else if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.userService.UpdateProfile(r.Context(), claims.UserID, &req, avatar)
		if err != nil {
			logger.Warn("Profile update failed", slog.String("userId", claims.UserID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// DeleteAvatar godoc
//	@Summary		Remove the caller's avatar
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.LoginResponse
//	@Security		BearerAuth
//	@Router			/api/user/delete-avatar-user [delete]
func (h *UserHandler) DeleteAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		resp, err := h.userService.DeleteAvatar(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}
