package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/api/middleware"
	service "github.com/aaravmahajanofficial/bookstore-platform/internal/services"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils/response"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// AdminChart godoc
//	@Summary		Store-wide sales figures
//	@Tags			Reports
//	@Produce		json
//	@Success		200	{object}	models.AdminChart
//	@Failure		403	{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin-chart [get]
func (h *ReportHandler) AdminChart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		chart, err := h.reportService.AdminChart(r.Context())
		if err != nil {
			logger.Error("Failed to build admin chart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, chart)
	}
}

// UserChart godoc
//	@Summary		The caller's spending
//	@Tags			Reports
//	@Produce		json
//	@Success		200	{object}	models.UserChart
//	@Security		BearerAuth
//	@Router			/api/chart [get]
func (h *ReportHandler) UserChart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		chart, err := h.reportService.UserChart(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, chart)
	}
}
