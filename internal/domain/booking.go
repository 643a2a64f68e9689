package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPendingDeposit  BookingStatus = "PENDING_DEPOSIT"
	StatusDepositPaid     BookingStatus = "DEPOSIT_PAID"
	StatusCompletedUnpaid BookingStatus = "COMPLETED_UNPAID"
	StatusCompletedPaid   BookingStatus = "COMPLETED_PAID"
	StatusCancelled       BookingStatus = "CANCELLED"
)

// Booking represents a mobile diagnostic visit in the system
type Booking struct {
	ID               string
	Status           BookingStatus
	PaymentLinkToken string

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
	SlotEnd    time.Time

	Zone             Zone
	DriveTimeMins    int
	TravelBufferMins int

	// Amounts are stored in pence
	TotalAmount   int64
	DepositAmount int64
	BalanceDue    int64
	Currency      string

	StripeCheckoutSessionID *string
	StripePaymentIntentID   *string
	StripeCustomerID        *string
	StripeBalanceSessionID  *string
	CalendarEventID         *string

	CreatedAt     time.Time
	UpdatedAt     time.Time
	DepositPaidAt *time.Time
	CompletedAt   *time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCompleted returns true if the visit can be marked as carried out
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusDepositPaid
}

// CanBeMarkedPaid returns true if the outstanding balance can be settled
func (b *Booking) CanBeMarkedPaid() bool {
	return b.Status == StatusCompletedUnpaid
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HasService returns true if the booking bundle contains the given service
func (b *Booking) HasService(serviceID string) bool {
	for _, id := range b.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// NewBookingID generates a human-readable booking reference,
// e.g. "TPD-20260115-9F3A".
func NewBookingID(now time.Time) string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("TPD-%s-%s", now.Format("20060102"), suffix)
}

// NewPaymentToken generates an opaque token for the customer payment page
func NewPaymentToken() string {
	return uuid.NewString()
}
