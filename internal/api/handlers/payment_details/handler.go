package payment_details

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings"
)

const (
	msgBookingNotFound  = "booking not found"
	msgBookingCancelled = "booking has been cancelled"
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

// Handle GET /api/v1/pay/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.service.GetByToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /pay/{token} - Booking not found")
			handlers.RespondNotFound(w, msgBookingNotFound)

		default:
			h.logger.Error("GET /pay/{token} - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Отмененная бронь по старой ссылке не должна выглядеть оплачиваемой
	if result.Status == string(domain.StatusCancelled) {
		h.logger.Warn("GET /pay/{token} - Booking cancelled: booking_id=%s", result.ID)
		handlers.RespondError(w, http.StatusGone, msgBookingCancelled)
		return
	}

	h.logger.Info("GET /pay/{token} - booking_id=%s status=%s", result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
