package checkout_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidPaymentType = "paymentType must be \"deposit\" or \"balance\""
	msgBookingNotFound    = "booking not found"
	msgWrongState         = "booking is not awaiting this payment"
	msgNoBalanceDue       = "booking has no outstanding balance"
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

// Handle POST /api/v1/pay/{token}/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req CreateCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pay/{token}/checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var (
		result interface{}
		err    error
	)
	switch req.PaymentType {
	case PaymentTypeDeposit:
		result, err = h.service.CreateDepositSession(r.Context(), token)
	case PaymentTypeBalance:
		result, err = h.service.CreateBalanceSession(r.Context(), token)
	default:
		h.logger.Warn("POST /pay/{token}/checkout - Invalid payment type: %q", req.PaymentType)
		handlers.RespondBadRequest(w, msgInvalidPaymentType)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /pay/{token}/checkout - Booking not found")
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrIllegalTransition):
			h.logger.Warn("POST /pay/{token}/checkout - Wrong state for type=%s", req.PaymentType)
			handlers.RespondError(w, http.StatusConflict, msgWrongState)

		case errors.Is(err, bookings.ErrNoBalanceDue):
			h.logger.Warn("POST /pay/{token}/checkout - No balance due")
			handlers.RespondError(w, http.StatusConflict, msgNoBalanceDue)

		default:
			h.logger.Error("POST /pay/{token}/checkout - Failed: type=%s, error=%v", req.PaymentType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /pay/{token}/checkout - Session created: type=%s", req.PaymentType)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
