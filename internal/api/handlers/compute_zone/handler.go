package compute_zone

import (
	"errors"
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/service/zoning"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidPostcode    = "a valid postcode is required"
	msgRouteUnavailable   = "drive time lookup is temporarily unavailable"
)

type Handler struct {
	zoningService ZoningService
	logger        Logger
}

func NewHandler(zoningService ZoningService, logger Logger) *Handler {
	return &Handler{
		zoningService: zoningService,
		logger:        logger,
	}
}

// Handle POST /api/v1/zone
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ComputeZoneRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /zone - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.zoningService.Classify(r.Context(), req.Postcode)
	if err != nil {
		switch {
		case errors.Is(err, zoning.ErrInvalidPostcode):
			h.logger.Warn("POST /zone - Invalid postcode: %q", req.Postcode)
			handlers.RespondBadRequest(w, msgInvalidPostcode)

		case errors.Is(err, zoning.ErrRouteUnavailable):
			h.logger.Error("POST /zone - Route unavailable for postcode=%s", req.Postcode)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgRouteUnavailable)

		default:
			h.logger.Error("POST /zone - Failed to classify postcode=%s: %v", req.Postcode, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /zone - postcode=%s zone=%s drive=%dmin", req.Postcode, result.Zone, result.DriveTimeMins)
	handlers.RespondJSON(w, http.StatusOK, &ComputeZoneResponse{
		Zone:          string(result.Zone),
		Serviceable:   result.Zone.Serviceable(),
		DriveTimeMins: result.DriveTimeMins,
		NearestBase:   result.BaseName,
	})
}
