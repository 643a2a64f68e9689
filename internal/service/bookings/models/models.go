package models

import (
	"errors"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на получение списка бронирований в админ-панели
type ListBookingsRequest struct {
	Status   *string    `json:"status,omitempty"`
	FromDate *time.Time `json:"fromDate,omitempty"`
	ToDate   *time.Time `json:"toDate,omitempty"`
}

// Response модели

// ServiceLine строка услуги в составе бронирования
type ServiceLine struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BookingResponse ответ с данными бронирования.
// Денежные суммы в пенсах.
type BookingResponse struct {
	ID               string        `json:"id"`
	Status           string        `json:"status"`
	PaymentLinkToken string        `json:"paymentLinkToken"`
	CustomerName     string        `json:"customerName"`
	CustomerEmail    string        `json:"customerEmail"`
	CustomerPhone    string        `json:"customerPhone"`
	Postcode         string        `json:"postcode"`
	AddressLine      *string       `json:"addressLine,omitempty"`
	SafeLocation     bool          `json:"safeLocation"`
	VehicleReg       string        `json:"vehicleReg"`
	VehicleMake      *string       `json:"vehicleMake,omitempty"`
	VehicleModel     *string       `json:"vehicleModel,omitempty"`
	FaultSummary     *string       `json:"faultSummary,omitempty"`
	Services         []ServiceLine `json:"services"`
	SlotStart        time.Time     `json:"slotStart"`
	SlotEnd          time.Time     `json:"slotEnd"`
	Zone             string        `json:"zone"`
	TotalAmount      int64         `json:"totalAmount"`
	DepositAmount    int64         `json:"depositAmount"`
	BalanceDue       int64         `json:"balanceDue"`
	Currency         string        `json:"currency"`
	CreatedAt        time.Time     `json:"createdAt"`
	DepositPaidAt    *time.Time    `json:"depositPaidAt,omitempty"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CheckoutResponse ответ с созданной checkout-сессией
type CheckoutResponse struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO.
// Названия услуг резолвятся через каталог; неизвестные ID остаются без метки.
func FromDomainBooking(b *domain.Booking, catalog *domain.Catalog) *BookingResponse {
	if b == nil {
		return nil
	}

	services := make([]ServiceLine, 0, len(b.ServiceIDs))
	for _, id := range b.ServiceIDs {
		line := ServiceLine{ID: id}
		if def, err := catalog.Get(id); err == nil {
			line.Label = def.Label
		}
		services = append(services, line)
	}

	return &BookingResponse{
		ID:               b.ID,
		Status:           string(b.Status),
		PaymentLinkToken: b.PaymentLinkToken,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		Postcode:         b.Postcode,
		AddressLine:      b.AddressLine,
		SafeLocation:     b.SafeLocation,
		VehicleReg:       b.VehicleReg,
		VehicleMake:      b.VehicleMake,
		VehicleModel:     b.VehicleModel,
		FaultSummary:     b.FaultSummary,
		Services:         services,
		SlotStart:        b.SlotStart,
		SlotEnd:          b.SlotEnd,
		Zone:             string(b.Zone),
		TotalAmount:      b.TotalAmount,
		DepositAmount:    b.DepositAmount,
		BalanceDue:       b.BalanceDue,
		Currency:         b.Currency,
		CreatedAt:        b.CreatedAt,
		DepositPaidAt:    b.DepositPaidAt,
		CompletedAt:      b.CompletedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, catalog *domain.Catalog) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		if converted := FromDomainBooking(b, catalog); converted != nil {
			resp.Bookings = append(resp.Bookings, *converted)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPendingDeposit,
		domain.StatusDepositPaid,
		domain.StatusCompletedUnpaid,
		domain.StatusCompletedPaid,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
