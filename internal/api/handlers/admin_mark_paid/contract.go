package admin_mark_paid

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	MarkPaid(ctx context.Context, bookingID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
