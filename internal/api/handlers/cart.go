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
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type checkoutResponse struct {
	Cart         *models.Cart `json:"cart"`
	TrackingCode string       `json:"tracking_code"`
	EmailSent    bool         `json:"email_sent"`
}

// AddToCart godoc
//	@Summary		Add one copy of a book to the open cart
//	@Description	Creates the open cart when the caller has none. Adding a book already in the cart bumps its quantity.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.AddToCartRequest	true	"Book reference"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse	"Book not found"
//	@Security		BearerAuth
//	@Router			/api/order/add-order [post]
func (h *CartHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		bookID, ok := readBookID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.AddToCart(r.Context(), claims.UserID, bookID)
		if err != nil {
			logger.Warn("Book was not added to cart", slog.String("userId", claims.UserID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// DecrementFromCart godoc
//	@Summary		Remove one copy from a cart line
//	@Description	A line holding a single copy is dropped; the cart stays open.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Order ID"
//	@Param			order	body		models.EditOrderRequest	true	"Book reference"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/order/edit-order/{id} [put]
func (h *CartHandler) DecrementFromCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		bookID, ok := readBookID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.DecrementFromCart(r.Context(), claims.UserID, r.PathValue("id"), bookID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveFromCart godoc
//	@Summary		Drop a cart line
//	@Tags			Orders
//	@Produce		json
//	@Param			id		path		string	true	"Order ID"
//	@Param			book_id	query		string	false	"Book ID, when not sent in the body"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/order/delete-order/{id} [delete]
func (h *CartHandler) RemoveFromCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		bookID := r.URL.Query().Get("book_id")
		if bookID == "" {
			if bookID, ok = readBookID(w, r); !ok {
				return
			}
		}

		cart, err := h.cartService.RemoveFromCart(r.Context(), claims.UserID, r.PathValue("id"), bookID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// GetOpenCart godoc
//	@Summary		The caller's open cart
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	models.Cart
//	@Failure		404	{object}	response.ErrorResponse	"No open cart"
//	@Security		BearerAuth
//	@Router			/api/cart/open-cart [get]
func (h *CartHandler) GetOpenCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		cart, err := h.cartService.GetOpenCart(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ListClosedCarts godoc
//	@Summary		The caller's purchase history
//	@Tags			Carts
//	@Produce		json
//	@Param			page	query		int	false	"Page, starting at 0"
//	@Param			limit	query		int	false	"Page size (default 5)"
//	@Success		200		{object}	models.PaginatedResponse{data=[]models.Cart}
//	@Security		BearerAuth
//	@Router			/api/cart/carts [get]
func (h *CartHandler) ListClosedCarts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		p := utils.ParsePagination(r)

		carts, total, err := h.cartService.ListClosedCarts(r.Context(), claims.UserID, p)
		if err != nil {
			logger.Error("Failed to list carts", slog.String("userId", claims.UserID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		paginated(w, carts, total, p)
	}
}

// GetClosedCart godoc
//	@Summary		A closed cart
//	@Description	Owners see their own carts; admins see every cart.
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string	true	"Cart ID"
//	@Success		200	{object}	models.Cart
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/cart/carts/{id} [get]
func (h *CartHandler) GetClosedCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		cart, err := h.cartService.GetClosedCart(r.Context(), claims, r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// Checkout godoc
//	@Summary		Check out the open cart
//	@Description	Decrements stock for every line, closes the cart and emails the buyer. A failed email does not undo the purchase.
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string	true	"Cart ID"
//	@Success		200	{object}	checkoutResponse
//	@Failure		400	{object}	response.ErrorResponse	"Cart closed, empty, or short on stock"
//	@Failure		403	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/cart/edit-cart/{id} [patch]
func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		result, err := h.cartService.Checkout(r.Context(), claims, r.PathValue("id"))
		if err != nil {
			logger.Warn("Checkout failed", slog.String("cartId", r.PathValue("id")), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, checkoutResponse{
			Cart:         result.Cart,
			TrackingCode: result.TrackingCode,
			EmailSent:    result.NotificationErr == nil,
		})
	}
}

func readBookID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.AddToCartRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		response.Error(w, appErrors.BadRequestError(err.Error()))
		return "", false
	}

	bookID := req.ResolveBookID()
	if bookID == "" {
		response.Error(w, appErrors.ValidationError("Book id is required"))
		return "", false
	}

	return bookID, true
}
