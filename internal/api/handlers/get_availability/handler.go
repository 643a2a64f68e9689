package get_availability

import (
	"errors"
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	getAvailability "github.com/tripointhq/TPD-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidInput       = "postcode and at least one service are required"
	msgUnknownService     = "unknown service in bundle"
	msgRouteUnavailable   = "drive time lookup is temporarily unavailable"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("POST /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailability.ErrUnknownService):
			h.logger.Warn("POST /availability - Unknown service: services=%v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgUnknownService)

		case errors.Is(err, getAvailability.ErrRouteUnavailable):
			h.logger.Error("POST /availability - Route unavailable for postcode=%s", req.Postcode)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgRouteUnavailable)

		default:
			h.logger.Error("POST /availability - Failed: postcode=%s, error=%v", req.Postcode, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability - postcode=%s zone=%s days=%d", req.Postcode, result.Zone, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
