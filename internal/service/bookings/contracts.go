package bookings

import (
	"context"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	bookingRepo "github.com/tripointhq/TPD-BookingService/internal/infra/storage/booking"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	List(ctx context.Context, filter bookingRepo.ListFilter) ([]*domain.Booking, error)
	MarkCompleted(ctx context.Context, id string) error
	SetBalancePaid(ctx context.Context, id string) error
	SetDepositSession(ctx context.Context, id, sessionID string) error
	SetBalanceSession(ctx context.Context, id, sessionID string) error
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// PaymentEventRepository интерфейс журнала платежных событий
type PaymentEventRepository interface {
	Record(ctx context.Context, bookingID, eventID, eventType string, amountPence int64) (bool, error)
}

// StripeClient интерфейс платежного клиента
type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params stripepay.CheckoutParams) (*stripepay.CheckoutSession, error)
}

// CalendarClient интерфейс клиента рабочего календаря
type CalendarClient interface {
	UpdateEventColor(ctx context.Context, eventID, colorID string) error
}

// Mailer интерфейс отправки писем
type Mailer interface {
	Send(ctx context.Context, msg zohomail.Message) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
