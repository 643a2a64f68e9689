package zoning

import (
	"context"
	"math"
	"strings"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

// Base точка выезда техника
type Base struct {
	Name     string
	Postcode string
}

// Service классифицирует посткод клиента по зонам покрытия.
// Время в пути считается от каждой базы, берется ближайшая.
type Service struct {
	routingClient RoutingClient
	bases         []Base
	logger        Logger
}

// NewService создает новый экземпляр сервиса зонирования
func NewService(routingClient RoutingClient, bases []Base, logger Logger) *Service {
	return &Service{
		routingClient: routingClient,
		bases:         bases,
		logger:        logger,
	}
}

// Classify определяет зону покрытия для посткода клиента.
// Если маршрут от какой-то базы рассчитать не удалось, база пропускается;
// ErrRouteUnavailable возвращается только когда не ответила ни одна база.
// При равном времени от нескольких баз выигрывает первая по порядку конфигурации.
func (s *Service) Classify(ctx context.Context, postcode string) (*domain.ZoneResult, error) {
	postcode = strings.TrimSpace(postcode)
	if postcode == "" {
		return nil, ErrInvalidPostcode
	}

	var best *domain.ZoneResult
	failures := 0

	for _, base := range s.bases {
		route, err := s.routingClient.GetRoute(ctx, base.Postcode, postcode)
		if err != nil {
			s.logger.Warn("Classify: route from base %s (%s) to %s failed: %v",
				base.Name, base.Postcode, postcode, err)
			failures++
			continue
		}

		driveTimeMins := int(math.Round(route.DriveTimeMinutes))
		if best == nil || driveTimeMins < best.DriveTimeMins {
			best = &domain.ZoneResult{
				DriveTimeMins: driveTimeMins,
				BaseName:      base.Name,
				BasePostcode:  base.Postcode,
			}
		}
	}

	if best == nil {
		s.logger.Error("Classify: all %d bases failed for postcode %s", failures, postcode)
		return nil, ErrRouteUnavailable
	}

	best.Zone = domain.ZoneForDriveTime(best.DriveTimeMins)

	s.logger.Info("Classify: postcode=%s zone=%s drive_time=%dmin base=%s",
		postcode, best.Zone, best.DriveTimeMins, best.BaseName)

	return best, nil
}
