package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/bookstore-platform/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	service "github.com/aaravmahajanofficial/bookstore-platform/internal/services"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type BookHandler struct {
	bookService   service.BookService
	validator     *validator.Validate
	maxUploadSize int64
}

func NewBookHandler(bookService service.BookService, maxUploadSize int64) *BookHandler {
	return &BookHandler{bookService: bookService, validator: validator.New(), maxUploadSize: maxUploadSize}
}

// ListBooks godoc
//	@Summary		List every book, including unpublished ones
//	@Tags			Books
//	@Produce		json
//	@Param			page	query		int	false	"Page, starting at 0"
//	@Param			limit	query		int	false	"Page size (default 5)"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.Book}
//	@Failure		403		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/book/books [get]
func (h *BookHandler) ListBooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		p := utils.ParsePagination(r)

		books, total, err := h.bookService.ListBooks(r.Context(), p)
		if err != nil {
			logger.Error("Failed to list books", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		paginated(w, books, total, p)
	}
}

// GetBook godoc
//	@Summary		Get a book by id
//	@Tags			Books
//	@Produce		json
//	@Param			id	path		string	true	"Book ID"
//	@Success		200	{object}	models.Book
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/api/book/books/{id} [get]
func (h *BookHandler) GetBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book, err := h.bookService.GetBook(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, book)
	}
}

// ListPublishedBooks godoc
//	@Summary		Browse the published catalog
//	@Tags			Books
//	@Produce		json
//	@Param			page	query		int		false	"Page, starting at 0"
//	@Param			limit	query		int		false	"Page size (default 5)"
//	@Param			search	query		string	false	"Case-insensitive name fragment"
//	@Param			sort	query		string	false	"name, price, year, discount or createdAt; prefix with - for descending"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.Book}
//	@Failure		400		{object}	response.ErrorResponse	"Unknown sort field"
//	@Router			/api/book/published-books [get]
func (h *BookHandler) ListPublishedBooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		p := utils.ParsePagination(r)
		query := r.URL.Query()

		books, total, err := h.bookService.ListPublishedBooks(r.Context(), p, query.Get("search"), query.Get("sort"))
		if err != nil {
			logger.Warn("Failed to list published books", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		paginated(w, books, total, p)
	}
}

// GetPublishedBook godoc
//	@Summary		Get a published book
//	@Tags			Books
//	@Produce		json
//	@Param			id	path		string	true	"Book ID"
//	@Success		200	{object}	models.Book
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/api/book/published-books/{id} [get]
func (h *BookHandler) GetPublishedBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book, err := h.bookService.GetPublishedBook(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, book)
	}
}

// RelatedBooks godoc
//	@Summary		Books in the same category
//	@Description	Returns at most ten published books sharing the category, with the total number of matches.
//	@Tags			Books
//	@Produce		json
//	@Param			id	path		string	true	"Book ID"
//	@Success		200	{object}	models.PaginatedResponse{data=[]models.Book}
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/api/book/relative-books/{id} [get]
func (h *BookHandler) RelatedBooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, total, err := h.bookService.RelatedBooks(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}

		paginated(w, books, total, models.Pagination{Page: 0, Limit: models.RelatedBooksMax})
	}
}

// CreateBook godoc
//	@Summary		Add a book
//	@Tags			Books
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image			formData	file	true	"Cover image"
//	@Param			name			formData	string	true	"Title"
//	@Param			price			formData	string	true	"Price"
//	@Param			category_id		formData	string	true	"Category ID"
//	@Param			number_in_stock	formData	int		false	"Copies in stock"
//	@Success		201				{object}	models.Book
//	@Failure		400				{object}	response.ErrorResponse
//	@Failure		404				{object}	response.ErrorResponse	"Category not found"
//	@Security		BearerAuth
//	@Router			/api/book/add-book [post]
func (h *BookHandler) CreateBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		req, image, ok := h.readBookForm(w, r)
		if !ok {
			return
		}

		book, err := h.bookService.CreateBook(r.Context(), req, image)
		if err != nil {
			logger.Warn("Book was not created", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, book)
	}
}

// UpdateBook godoc
//	@Summary		Edit a book
//	@Description	Same form as add-book; the image is optional.
//	@Tags			Books
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Book ID"
//	@Param			image	formData	file	false	"Cover image"
//	@Success		200		{object}	models.Book
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/book/edit-book/{id} [put]
func (h *BookHandler) UpdateBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		req, image, ok := h.readBookForm(w, r)
		if !ok {
			return
		}

		book, err := h.bookService.UpdateBook(r.Context(), r.PathValue("id"), req, image)
		if err != nil {
			logger.Warn("Book was not updated", slog.String("bookId", r.PathValue("id")), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, book)
	}
}

// RemoveBook godoc
//	@Summary		Soft delete a book
//	@Tags			Books
//	@Produce		json
//	@Param			id	path		string	true	"Book ID"
//	@Success		200	{object}	messageResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/book/delete-book/{id} [delete]
func (h *BookHandler) RemoveBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.bookService.RemoveBook(r.Context(), r.PathValue("id")); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, messageResponse{Message: "Book removed"})
	}
}

func (h *BookHandler) readBookForm(w http.ResponseWriter, r *http.Request) (*models.BookRequest, []byte, bool) {
	if !isMultipart(r) {
		response.Error(w, appErrors.BadRequestError("Expected a multipart form"))
		return nil, nil, false
	}

	image, err := parseMultipart(w, r, h.maxUploadSize, "image")
	if err != nil {
		response.Error(w, err)
		return nil, nil, false
	}

	req, err := bookRequestFromForm(r)
	if err != nil {
		response.Error(w, err)
		return nil, nil, false
	}

	if !utils.Validate(w, req, h.validator) {
		return nil, nil, false
	}

	return req, image, true
}

func bookRequestFromForm(r *http.Request) (*models.BookRequest, error) {
	rawPrice := strings.TrimSpace(r.FormValue("price"))
	if rawPrice == "" {
		return nil, appErrors.ValidationError("Field price is required")
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return nil, appErrors.ValidationError("Field price must be a number")
	}

	pageCount, err := formInt(r, "page_count")
	if err != nil {
		return nil, err
	}

	discount, err := formInt(r, "discount")
	if err != nil {
		return nil, err
	}

	stock, err := formInt(r, "number_in_stock")
	if err != nil {
		return nil, err
	}

	published, err := formBool(r, "is_published")
	if err != nil {
		return nil, err
	}

	return &models.BookRequest{
		Name:          r.FormValue("name"),
		Year:          r.FormValue("year"),
		Lang:          r.FormValue("lang"),
		PageCount:     pageCount,
		Shabak:        r.FormValue("shabak"),
		Price:         price,
		Discount:      discount,
		Detail:        r.FormValue("detail"),
		NumberInStock: stock,
		Authors:       r.FormValue("authors"),
		IsPublished:   published,
		CategoryID:    r.FormValue("category_id"),
	}, nil
}
