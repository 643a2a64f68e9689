package stripe_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	processPaymentEvent "github.com/tripointhq/TPD-BookingService/internal/usecase/process_payment_event"
)

// maxPayloadBytes предел размера webhook тела
const maxPayloadBytes = 64 * 1024

const (
	msgInvalidPayload   = "failed to read payload"
	msgInvalidSignature = "invalid signature"
)

type Handler struct {
	useCase ProcessPaymentEventUseCase
	logger  Logger
}

func NewHandler(useCase ProcessPaymentEventUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /webhooks/stripe.
// Любой ответ 2xx подтверждает доставку провайдеру; ошибки 5xx
// приводят к повторной доставке события.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}
	defer r.Body.Close()

	result, err := h.useCase.Execute(r.Context(), &processPaymentEvent.Request{
		Payload:   payload,
		Signature: r.Header.Get("Stripe-Signature"),
	})
	if err != nil {
		if errors.Is(err, processPaymentEvent.ErrInvalidSignature) {
			h.logger.Warn("POST /webhooks/stripe - Invalid signature")
			handlers.RespondBadRequest(w, msgInvalidSignature)
			return
		}
		h.logger.Error("POST /webhooks/stripe - Failed to process event: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /webhooks/stripe - Processed: type=%s booking_id=%s handled=%t",
		result.EventType, result.BookingID, result.Handled)
	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
