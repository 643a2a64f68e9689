package reserve_booking

import (
	"time"

	reserveBooking "github.com/tripointhq/TPD-BookingService/internal/usecase/reserve_booking"
)

// ReserveBookingRequest HTTP request model
type ReserveBookingRequest struct {
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	Postcode      string  `json:"postcode"`
	AddressLine   *string `json:"addressLine,omitempty"`
	SafeLocation  bool    `json:"safeLocation"`

	VehicleReg   string  `json:"vehicleReg"`
	VehicleMake  *string `json:"vehicleMake,omitempty"`
	VehicleModel *string `json:"vehicleModel,omitempty"`
	FaultSummary *string `json:"faultSummary,omitempty"`

	ServiceIDs []string `json:"serviceIds"`
	SlotStart  string   `json:"slotStart"` // RFC3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// (с парсингом времени начала слота)
func (r *ReserveBookingRequest) ToUseCaseRequest() (*reserveBooking.Request, error) {
	slotStart, err := time.Parse(time.RFC3339, r.SlotStart)
	if err != nil {
		return nil, err
	}

	return &reserveBooking.Request{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Postcode:      r.Postcode,
		AddressLine:   r.AddressLine,
		SafeLocation:  r.SafeLocation,
		VehicleReg:    r.VehicleReg,
		VehicleMake:   r.VehicleMake,
		VehicleModel:  r.VehicleModel,
		FaultSummary:  r.FaultSummary,
		ServiceIDs:    r.ServiceIDs,
		SlotStart:     slotStart,
	}, nil
}
