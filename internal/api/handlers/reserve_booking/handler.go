package reserve_booking

import (
	"errors"
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	reserveBooking "github.com/tripointhq/TPD-BookingService/internal/usecase/reserve_booking"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidSlotStartTime = "invalid slot start, expected RFC3339 timestamp"
	msgInvalidInput         = "missing or invalid booking details"
	msgUnknownService       = "unknown service in bundle"
	msgRouteUnavailable     = "drive time lookup is temporarily unavailable"
	msgInvalidSlot          = "slot start must be on the half-hour grid within working hours"
	msgInsufficientNotice   = "slot is too soon for the selected services"
	msgBeyondWindow         = "slot is beyond the booking window"
	msgSlotNotAvailable     = "selected slot is no longer available"
)

type Handler struct {
	useCase ReserveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReserveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse slot start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: postcode=%s slot=%s", req.Postcode, req.SlotStart)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, reserveBooking.ErrUnknownService):
			h.logger.Warn("POST /bookings - Unknown service: services=%v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgUnknownService)

		case errors.Is(err, reserveBooking.ErrInvalidSlotStart):
			h.logger.Warn("POST /bookings - Invalid slot start: slot=%s", req.SlotStart)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, reserveBooking.ErrInsufficientNotice):
			h.logger.Warn("POST /bookings - Insufficient notice: slot=%s", req.SlotStart)
			handlers.RespondBadRequest(w, msgInsufficientNotice)

		case errors.Is(err, reserveBooking.ErrBeyondWindow):
			h.logger.Warn("POST /bookings - Slot beyond window: slot=%s", req.SlotStart)
			handlers.RespondBadRequest(w, msgBeyondWindow)

		case errors.Is(err, reserveBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reserveBooking.ErrRouteUnavailable):
			h.logger.Error("POST /bookings - Route unavailable for postcode=%s", req.Postcode)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgRouteUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to reserve: postcode=%s, error=%v", req.Postcode, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Reserved: booking_id=%s status=%s", result.BookingID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
