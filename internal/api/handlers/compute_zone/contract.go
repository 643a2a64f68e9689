package compute_zone

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

type ZoningService interface {
	Classify(ctx context.Context, postcode string) (*domain.ZoneResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
