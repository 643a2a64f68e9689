package reserve_booking

import (
	"context"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	"github.com/tripointhq/TPD-BookingService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveInWindow(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// ZoningService интерфейс сервиса зонирования
type ZoningService interface {
	Classify(ctx context.Context, postcode string) (*domain.ZoneResult, error)
}

// PricingService интерфейс сервиса расчета цен и требований к слоту
type PricingService interface {
	Bundle(serviceIDs []string) ([]domain.ServiceDefinition, error)
	Requirements(bundle []domain.ServiceDefinition) pricing.Requirements
	TravelBuffer(driveTimeMins int, bundle []domain.ServiceDefinition) int
	FixedPrice(bundle []domain.ServiceDefinition, zone domain.Zone, slotStart time.Time) *int64
	Deposit(bundle []domain.ServiceDefinition, zone domain.Zone) *int64
}

// Mailer интерфейс клиента исходящей почты
type Mailer interface {
	Send(ctx context.Context, msg zohomail.Message) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
