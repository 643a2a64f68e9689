package admin_list_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidStatus = "invalid status filter"
	msgInvalidDate   = "invalid date filter, expected YYYY-MM-DD"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings?status=&from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListBookingsRequest{}
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(domain.DateFormat, from)
		if err != nil {
			h.logger.Warn("GET /admin/bookings - Invalid from date: %q", from)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.FromDate = &parsed
	}

	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(domain.DateFormat, to)
		if err != nil {
			h.logger.Warn("GET /admin/bookings - Invalid to date: %q", to)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.ToDate = &parsed
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /admin/bookings - Invalid status filter")
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /admin/bookings - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings - Returned %d bookings", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
