package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	service "github.com/aaravmahajanofficial/bookstore-platform/internal/services"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AdvertiseHandler struct {
	advertiseService service.AdvertiseService
	validator        *validator.Validate
	maxUploadSize    int64
}

func NewAdvertiseHandler(advertiseService service.AdvertiseService, maxUploadSize int64) *AdvertiseHandler {
	return &AdvertiseHandler{advertiseService: advertiseService, validator: validator.New(), maxUploadSize: maxUploadSize}
}

// ListAdvertises godoc
//	@Summary		List advertises
//	@Tags			Advertises
//	@Produce		json
//	@Param			page	query		int	false	"Page, starting at 0"
//	@Param			limit	query		int	false	"Page size (default 5)"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.Advertise}
//	@Router			/api/advertise/advertises [get]
func (h *AdvertiseHandler) ListAdvertises() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := utils.ParsePagination(r)

		advertises, total, err := h.advertiseService.ListAdvertises(r.Context(), p)
		if err != nil {
			response.Error(w, err)
			return
		}

		paginated(w, advertises, total, p)
	}
}

// ListPublishedAdvertises godoc
//	@Summary		List published advertises
//	@Tags			Advertises
//	@Produce		json
//	@Param			page	query		int	false	"Page, starting at 0"
//	@Param			limit	query		int	false	"Page size (default 5)"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.Advertise}
//	@Router			/api/advertise/published-advertises [get]
func (h *AdvertiseHandler) ListPublishedAdvertises() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := utils.ParsePagination(r)

		advertises, total, err := h.advertiseService.ListPublishedAdvertises(r.Context(), p)
		if err != nil {
			response.Error(w, err)
			return
		}

		paginated(w, advertises, total, p)
	}
}

// GetAdvertise godoc
//	@Summary		Get an advertise
//	@Tags			Advertises
//	@Produce		json
//	@Param			id	path		string	true	"Advertise ID"
//	@Success		200	{object}	models.Advertise
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/api/advertise/advertises/{id} [get]
func (h *AdvertiseHandler) GetAdvertise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		advertise, err := h.advertiseService.GetAdvertise(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, advertise)
	}
}

// CreateAdvertise godoc
//	@Summary		Add an advertise
//	@Tags			Advertises
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image			formData	file	true	"Banner image"
//	@Param			book_id			formData	string	true	"Advertised book"
//	@Param			is_published	formData	bool	false	"Show on the storefront"
//	@Success		201				{object}	models.Advertise
//	@Failure		400				{object}	response.ErrorResponse
//	@Failure		404				{object}	response.ErrorResponse	"Book not found"
//	@Security		BearerAuth
//	@Router			/api/advertise/add-advertise [post]
func (h *AdvertiseHandler) CreateAdvertise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		req, image, ok := h.readAdvertiseForm(w, r)
		if !ok {
			return
		}

		advertise, err := h.advertiseService.CreateAdvertise(r.Context(), req, image)
		if err != nil {
			logger.Warn("Advertise was not created", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, advertise)
	}
}

// UpdateAdvertise godoc
//	@Summary		Edit an advertise
//	@Tags			Advertises
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string	true	"Advertise ID"
//	@Param			image			formData	file	false	"Banner image"
//	@Param			book_id			formData	string	true	"Advertised book"
//	@Param			is_published	formData	bool	false	"Show on the storefront"
//	@Success		200				{object}	models.Advertise
//	@Failure		400				{object}	response.ErrorResponse
//	@Failure		404				{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/advertise/edit-advertise/{id} [put]
func (h *AdvertiseHandler) UpdateAdvertise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, image, ok := h.readAdvertiseForm(w, r)
		if !ok {
			return
		}

		advertise, err := h.advertiseService.UpdateAdvertise(r.Context(), r.PathValue("id"), req, image)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, advertise)
	}
}

// RemoveAdvertise godoc
//	@Summary		Soft delete an advertise
//	@Tags			Advertises
//	@Produce		json
//	@Param			id	path		string	true	"Advertise ID"
//	@Success		200	{object}	messageResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/advertise/delete-advertise/{id} [delete]
func (h *AdvertiseHandler) RemoveAdvertise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.advertiseService.RemoveAdvertise(r.Context(), r.PathValue("id")); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, messageResponse{Message: "Advertise removed"})
	}
}

func (h *AdvertiseHandler) readAdvertiseForm(w http.ResponseWriter, r *http.Request) (*models.AdvertiseRequest, []byte, bool) {
	if !isMultipart(r) {
		response.Error(w, appErrors.BadRequestError("Expected a multipart form"))
		return nil, nil, false
	}

	image, err := parseMultipart(w, r, h.maxUploadSize, "image")
	if err != nil {
		response.Error(w, err)
		return nil, nil, false
	}

	published, err := formBool(r, "is_published")
	if err != nil {
		response.Error(w, err)
		return nil, nil, false
	}

	req := &models.AdvertiseRequest{BookID: r.FormValue("book_id"), IsPublished: published}
	if !utils.Validate(w, req, h.validator) {
		return nil, nil, false
	}

	return req, image, true
}
