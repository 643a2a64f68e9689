package get_availability

import (
	getAvailability "github.com/tripointhq/TPD-BookingService/internal/usecase/get_availability"
)

// GetAvailabilityRequest HTTP request model
type GetAvailabilityRequest struct {
	Postcode   string   `json:"postcode"`
	ServiceIDs []string `json:"serviceIds"`
	FromDate   string   `json:"fromDate,omitempty"` // YYYY-MM-DD, сетка не раньше сегодняшнего дня
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GetAvailabilityRequest) ToUseCaseRequest() *getAvailability.Request {
	return &getAvailability.Request{
		Postcode:   r.Postcode,
		ServiceIDs: r.ServiceIDs,
		FromDate:   r.FromDate,
	}
}
