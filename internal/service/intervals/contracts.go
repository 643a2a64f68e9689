package intervals

import (
	"context"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
)

// CalendarClient интерфейс клиента рабочего календаря
type CalendarClient interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]gcalendar.Event, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveInWindow(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
