package reserve_booking

import "time"

// Статусы результата резервации
const (
	StatusPendingDeposit      = "pending_deposit"
	StatusPendingManualReview = "pending_manual_review"
)

// Request модель запроса на резервацию слота
type Request struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Postcode      string
	AddressLine   *string
	SafeLocation  bool

	VehicleReg   string
	VehicleMake  *string
	VehicleModel *string
	FaultSummary *string

	ServiceIDs []string
	SlotStart  time.Time
}

// Response модель ответа резервации.
// Для незонируемых посткодов бронирование не создается: заявка уходит
// на ручное рассмотрение, поля бронирования пустые.
type Response struct {
	Status           string     `json:"status"`
	BookingID        string     `json:"bookingId,omitempty"`
	PaymentURL       string     `json:"paymentUrl,omitempty"`
	SlotStart        *time.Time `json:"slotStart,omitempty"`
	SlotEnd          *time.Time `json:"slotEnd,omitempty"`
	Zone             string     `json:"zone,omitempty"`
	TotalAmountPence int64      `json:"totalAmountPence,omitempty"`
	DepositPence     int64      `json:"depositPence,omitempty"`
	BalancePence     int64      `json:"balancePence,omitempty"`
}
