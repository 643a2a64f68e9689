package process_payment_event

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
)

// StripeClient проверка подписи и разбор входящего webhook
type StripeClient interface {
	VerifyWebhook(payload []byte, signature string) (*stripepay.WebhookEvent, error)
}

// BookingRepository операции над бронированиями, нужные обработчику платежей
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByStripeSession(ctx context.Context, sessionID string) (*domain.Booking, error)
	SetDepositPaid(ctx context.Context, id string, paymentIntentID, customerID *string) error
	SetBalancePaid(ctx context.Context, id string) error
	SetCalendarEvent(ctx context.Context, id, eventID string) error
}

// PaymentEventRepository журнал обработанных платежных событий
type PaymentEventRepository interface {
	Record(ctx context.Context, bookingID, eventID, eventType string, amountPence int64) (bool, error)
}

// CalendarClient операции с рабочим календарем техника
type CalendarClient interface {
	CreateEvent(ctx context.Context, input gcalendar.EventInput) (string, error)
	UpdateEventColor(ctx context.Context, eventID, colorID string) error
}

// Mailer отправка писем
type Mailer interface {
	Send(ctx context.Context, msg zohomail.Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
