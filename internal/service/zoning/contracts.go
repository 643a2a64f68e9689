package zoning

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/integrations/routing"
)

// RoutingClient интерфейс клиента маршрутизации
type RoutingClient interface {
	GetRoute(ctx context.Context, fromPostcode, toPostcode string) (*routing.Route, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
