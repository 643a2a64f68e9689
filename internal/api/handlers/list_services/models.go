package list_services

import "github.com/tripointhq/TPD-BookingService/internal/domain"

// ServiceResponse HTTP модель услуги каталога.
// Цены в фунтах за зону обслуживания.
type ServiceResponse struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	DurationMins   int    `json:"durationMins"`
	MinNoticeHours int    `json:"minNoticeHours"`
	PriceZoneAGBP  int64  `json:"priceZoneAGbp"`
	PriceZoneBGBP  int64  `json:"priceZoneBGbp"`
	PriceZoneCGBP  int64  `json:"priceZoneCGbp"`
}

// ListServicesResponse ответ со списком услуг
type ListServicesResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromCatalog конвертирует определения каталога в HTTP модель
func FromCatalog(defs []domain.ServiceDefinition) *ListServicesResponse {
	resp := &ListServicesResponse{
		Services: make([]ServiceResponse, 0, len(defs)),
	}
	for _, def := range defs {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:             def.ID,
			Label:          def.Label,
			DurationMins:   def.DurationMins,
			MinNoticeHours: def.MinNoticeHours,
			PriceZoneAGBP:  def.PriceZoneA,
			PriceZoneBGBP:  def.PriceZoneB,
			PriceZoneCGBP:  def.PriceZoneC,
		})
	}
	return resp
}
