package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	bookingRepo "github.com/tripointhq/TPD-BookingService/internal/infra/storage/booking"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
)

type fakeBookingRepo struct {
	bookings map[string]*domain.Booking
	expired  int64
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByToken(_ context.Context, token string) (*domain.Booking, error) {
	for _, b := range f.bookings {
		if b.PaymentLinkToken == token {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) List(context.Context, bookingRepo.ListFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkCompleted(_ context.Context, id string) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.StatusDepositPaid {
		return bookingRepo.ErrIllegalTransition
	}
	b.Status = domain.StatusCompletedUnpaid
	return nil
}

func (f *fakeBookingRepo) SetBalancePaid(_ context.Context, id string) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.StatusCompletedUnpaid {
		return bookingRepo.ErrIllegalTransition
	}
	b.Status = domain.StatusCompletedPaid
	b.BalanceDue = 0
	return nil
}

func (f *fakeBookingRepo) SetDepositSession(_ context.Context, id, sessionID string) error {
	f.bookings[id].StripeCheckoutSessionID = &sessionID
	return nil
}

func (f *fakeBookingRepo) SetBalanceSession(_ context.Context, id, sessionID string) error {
	f.bookings[id].StripeBalanceSessionID = &sessionID
	return nil
}

func (f *fakeBookingRepo) ExpirePending(context.Context, time.Time) (int64, error) {
	return f.expired, nil
}

type fakeLedger struct {
	seen map[string]bool
}

func (f *fakeLedger) Record(_ context.Context, _, eventID, _ string, _ int64) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[eventID] {
		return false, nil
	}
	f.seen[eventID] = true
	return true, nil
}

type fakeStripe struct {
	lastParams stripepay.CheckoutParams
}

func (f *fakeStripe) CreateCheckoutSession(_ context.Context, params stripepay.CheckoutParams) (*stripepay.CheckoutSession, error) {
	f.lastParams = params
	return &stripepay.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

type fakeCalendar struct {
	colors map[string]string
}

func (f *fakeCalendar) UpdateEventColor(_ context.Context, eventID, colorID string) error {
	if f.colors == nil {
		f.colors = map[string]string{}
	}
	f.colors[eventID] = colorID
	return nil
}

type fakeMailer struct {
	sent []zohomail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg zohomail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func eventID(s string) *string { return &s }

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:               "TPD-20260410-AB12",
		Status:           status,
		PaymentLinkToken: "tok-1",
		CustomerEmail:    "jo@example.com",
		ServiceIDs:       []string{domain.ServiceDiagnosticCallout},
		SlotStart:        time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC),
		SlotEnd:          time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC),
		Zone:             domain.ZoneA,
		TotalAmount:      12000,
		DepositAmount:    3000,
		BalanceDue:       9000,
		Currency:         "gbp",
		CalendarEventID:  eventID("evt-1"),
	}
}

func newTestService(repo *fakeBookingRepo, ledger *fakeLedger, stripe *fakeStripe, cal *fakeCalendar, mailer *fakeMailer) *Service {
	return NewService(repo, ledger, stripe, cal, mailer, domain.DefaultCatalog(), 30*time.Minute, "https://booking.test", nopLogger{})
}

func TestComplete_Success(t *testing.T) {
	b := testBooking(domain.StatusDepositPaid)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	cal := &fakeCalendar{}
	mailer := &fakeMailer{}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, cal, mailer)

	resp, err := svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompletedUnpaid), resp.Status)
	assert.Equal(t, "11", cal.colors["evt-1"])

	// Balance-request email goes out with the payment link.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"jo@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].TextBody, "https://booking.test/pay/tok-1")
	assert.Contains(t, mailer.sent[0].TextBody, "£90.00")
}

func TestComplete_RejectsPendingDeposit(t *testing.T) {
	b := testBooking(domain.StatusPendingDeposit)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	_, err := svc.Complete(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMarkPaid_Success(t *testing.T) {
	b := testBooking(domain.StatusCompletedUnpaid)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	cal := &fakeCalendar{}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, cal, &fakeMailer{})

	resp, err := svc.MarkPaid(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompletedPaid), resp.Status)
	assert.Equal(t, int64(0), resp.BalanceDue)
	assert.Equal(t, "10", cal.colors["evt-1"])
}

func TestMarkPaid_Idempotent(t *testing.T) {
	b := testBooking(domain.StatusCompletedUnpaid)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	ledger := &fakeLedger{seen: map[string]bool{"admin-mark-paid-" + b.ID: true}}
	svc := newTestService(repo, ledger, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	resp, err := svc.MarkPaid(context.Background(), b.ID)
	require.NoError(t, err)

	// The ledger already has the event, so the status must stay untouched.
	assert.Equal(t, string(domain.StatusCompletedUnpaid), resp.Status)
}

func TestMarkPaid_RejectsWrongState(t *testing.T) {
	b := testBooking(domain.StatusDepositPaid)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	_, err := svc.MarkPaid(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCreateDepositSession(t *testing.T) {
	b := testBooking(domain.StatusPendingDeposit)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	stripe := &fakeStripe{}
	svc := newTestService(repo, &fakeLedger{}, stripe, &fakeCalendar{}, &fakeMailer{})

	resp, err := svc.CreateDepositSession(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, stripepay.PaymentTypeDeposit, stripe.lastParams.PaymentType)
	assert.Equal(t, int64(3000), stripe.lastParams.AmountPence)
	require.NotNil(t, b.StripeCheckoutSessionID)
	assert.Equal(t, "cs_test_1", *b.StripeCheckoutSessionID)
}

func TestCreateDepositSession_WrongState(t *testing.T) {
	b := testBooking(domain.StatusDepositPaid)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	_, err := svc.CreateDepositSession(context.Background(), "tok-1")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCreateBalanceSession(t *testing.T) {
	b := testBooking(domain.StatusCompletedUnpaid)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	stripe := &fakeStripe{}
	svc := newTestService(repo, &fakeLedger{}, stripe, &fakeCalendar{}, &fakeMailer{})

	resp, err := svc.CreateBalanceSession(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.Equal(t, stripepay.PaymentTypeBalance, stripe.lastParams.PaymentType)
	assert.Equal(t, int64(9000), stripe.lastParams.AmountPence)
	assert.Equal(t, "https://checkout.test/cs_test_1", resp.CheckoutURL)
}

func TestCreateBalanceSession_NoBalanceDue(t *testing.T) {
	b := testBooking(domain.StatusCompletedUnpaid)
	b.BalanceDue = 0
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	_, err := svc.CreateBalanceSession(context.Background(), "tok-1")
	assert.ErrorIs(t, err, ErrNoBalanceDue)
}

func TestGetByToken_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	_, err := svc.GetByToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByToken_ResolvesServiceLabels(t *testing.T) {
	b := testBooking(domain.StatusPendingDeposit)
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{b.ID: b}}
	svc := newTestService(repo, &fakeLedger{}, &fakeStripe{}, &fakeCalendar{}, &fakeMailer{})

	resp, err := svc.GetByToken(context.Background(), "tok-1")
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Diagnostic Callout (Standard)", resp.Services[0].Label)
}
