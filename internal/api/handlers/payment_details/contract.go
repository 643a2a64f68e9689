package payment_details

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	GetByToken(ctx context.Context, token string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
