package admin_complete_booking

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	Complete(ctx context.Context, bookingID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
