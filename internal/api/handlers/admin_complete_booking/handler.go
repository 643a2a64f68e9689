package admin_complete_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings"
)

const (
	msgBookingNotFound = "booking not found"
	msgWrongState      = "only deposit-paid bookings can be completed"
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

// Handle POST /api/v1/admin/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	result, err := h.service.Complete(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /admin/bookings/{id}/complete - Not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrIllegalTransition):
			h.logger.Warn("POST /admin/bookings/{id}/complete - Wrong state: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgWrongState)

		default:
			h.logger.Error("POST /admin/bookings/{id}/complete - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/complete - Completed: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
