package checkout_session

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	CreateDepositSession(ctx context.Context, token string) (*models.CheckoutResponse, error)
	CreateBalanceSession(ctx context.Context, token string) (*models.CheckoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
