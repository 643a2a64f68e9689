package list_services

import (
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

type Handler struct {
	catalog *domain.Catalog
	logger  Logger
}

func NewHandler(catalog *domain.Catalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	defs := h.catalog.List()
	h.logger.Info("GET /services - returned %d services", len(defs))
	handlers.RespondJSON(w, http.StatusOK, FromCatalog(defs))
}
