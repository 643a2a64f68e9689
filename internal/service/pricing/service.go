package pricing

import (
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

// Requirements агрегированные требования бандла услуг к слоту
type Requirements struct {
	DurationMins   int // суммарная длительность визита
	BufferMins     int // сумма сервисных буферов (без времени в пути)
	MaxNoticeHours int // максимальный min-notice среди услуг бандла
}

// Service расчет цен, депозитов и требований к слоту.
// Все расчеты детерминированы: каталог фиксирован, входы передаются явно.
type Service struct {
	catalog *domain.Catalog
}

// NewService создает новый экземпляр сервиса расчета цен
func NewService(catalog *domain.Catalog) *Service {
	return &Service{catalog: catalog}
}

// Bundle резолвит список ID услуг в определения каталога
func (s *Service) Bundle(serviceIDs []string) ([]domain.ServiceDefinition, error) {
	return s.catalog.Bundle(serviceIDs)
}

// Requirements считает агрегированные требования бандла
func (s *Service) Requirements(bundle []domain.ServiceDefinition) Requirements {
	var req Requirements
	for _, def := range bundle {
		req.DurationMins += def.DurationMins
		req.BufferMins += def.BufferMins
		if def.MinNoticeHours > req.MaxNoticeHours {
			req.MaxNoticeHours = def.MinNoticeHours
		}
	}
	return req
}

// TravelBuffer считает буфер на дорогу: время в пути плюс сервисные буферы,
// ограниченные рабочим диапазоном
func (s *Service) TravelBuffer(driveTimeMins int, bundle []domain.ServiceDefinition) int {
	buffer := driveTimeMins
	for _, def := range bundle {
		buffer += def.BufferMins
	}

	if buffer < domain.MinTravelBufferMins {
		return domain.MinTravelBufferMins
	}
	if buffer > domain.MaxTravelBufferMins {
		return domain.MaxTravelBufferMins
	}
	return buffer
}

// FixedPrice считает фиксированную цену визита в GBP для зоны и времени начала.
// Для незонируемых клиентов цены нет, возвращается nil.
//
// Надбавки за внерабочие часы:
//   - старт до 08:00 или с 19:00: плюс 20
//   - старт в 21:00 с диагностическим выездом в бандле: еще плюс 40
func (s *Service) FixedPrice(bundle []domain.ServiceDefinition, zone domain.Zone, slotStart time.Time) *int64 {
	if !zone.Serviceable() {
		return nil
	}

	var total int64
	for _, def := range bundle {
		price, err := def.Price(zone)
		if err != nil {
			return nil
		}
		total += price
	}

	hour := slotStart.Hour()
	if hour < domain.EarlyHourThreshold || hour >= domain.LateHourThreshold {
		total += domain.OutOfHoursSurchargeGBP

		if hour == domain.LateNightHourThreshold && containsService(bundle, domain.ServiceDiagnosticCallout) {
			total += domain.LateNightSurchargeGBP
		}
	}

	return &total
}

// Deposit считает депозит в GBP. Повышенный депозит берется для зоны C
// и для бандлов с приоритетным выездом.
func (s *Service) Deposit(bundle []domain.ServiceDefinition, zone domain.Zone) *int64 {
	if !zone.Serviceable() {
		return nil
	}

	deposit := int64(domain.StandardDepositGBP)
	if zone == domain.ZoneC || containsService(bundle, domain.ServicePriorityTriage) {
		deposit = domain.RaisedDepositGBP
	}
	return &deposit
}

func containsService(bundle []domain.ServiceDefinition, serviceID string) bool {
	for _, def := range bundle {
		if def.ID == serviceID {
			return true
		}
	}
	return false
}
