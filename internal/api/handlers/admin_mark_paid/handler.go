package admin_mark_paid

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings"
)

const (
	msgBookingNotFound = "booking not found"
	msgWrongState      = "only completed bookings can be marked as paid"
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

// Handle POST /api/v1/admin/bookings/{bookingId}/mark-paid
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	result, err := h.service.MarkPaid(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /admin/bookings/{id}/mark-paid - Not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrIllegalTransition):
			h.logger.Warn("POST /admin/bookings/{id}/mark-paid - Wrong state: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgWrongState)

		default:
			h.logger.Error("POST /admin/bookings/{id}/mark-paid - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/mark-paid - Marked paid: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
