package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	service "github.com/aaravmahajanofficial/bookstore-platform/internal/services"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: validator.New()}
}

// ListCategories godoc
//	@Summary		List categories
//	@Tags			Categories
//	@Produce		json
//	@Param			page	query		int	false	"Page, starting at 0"
//	@Param			limit	query		int	false	"Page size (default 5)"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.Category}
//	@Security		BearerAuth
//	@Router			/api/category/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		p := utils.ParsePagination(r)

		categories, total, err := h.categoryService.ListCategories(r.Context(), p)
		if err != nil {
			logger.Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		paginated(w, categories, total, p)
	}
}

// GetCategory godoc
//	@Summary		Get a category
//	@Tags			Categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID"
//	@Success		200	{object}	models.Category
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/category/categories/{id} [get]
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := h.categoryService.GetCategory(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// CreateCategory godoc
//	@Summary		Add a category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		models.CategoryRequest	true	"Name and slug"
//	@Success		201			{object}	models.Category
//	@Failure		400			{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/category/add-category [post]
func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Warn("Category was not created", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, category)
	}
}

// UpdateCategory godoc
//	@Summary		Rename a category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string					true	"Category ID"
//	@Param			category	body		models.CategoryRequest	true	"Name and slug"
//	@Success		200			{object}	models.Category
//	@Failure		400			{object}	response.ErrorResponse
//	@Failure		404			{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/category/edit-category/{id} [put]
func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), r.PathValue("id"), &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// RemoveCategory godoc
//	@Summary		Remove a category
//	@Description	Soft deletes the category and unpublishes every book filed under it.
//	@Tags			Categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID"
//	@Success		200	{object}	models.RemoveCategoryResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/category/edit-category-status/{id} [patch]
func (h *CategoryHandler) RemoveCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		resp, err := h.categoryService.RemoveCategory(r.Context(), r.PathValue("id"))
		if err != nil {
			logger.Warn("Category was not removed", slog.String("categoryId", r.PathValue("id")), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}
