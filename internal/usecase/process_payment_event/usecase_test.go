package process_payment_event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/infra/storage/booking"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	"github.com/tripointhq/TPD-BookingService/pkg/ptr"
)

type fakeStripe struct {
	event *stripepay.WebhookEvent
	err   error
}

func (f *fakeStripe) VerifyWebhook([]byte, string) (*stripepay.WebhookEvent, error) {
	return f.event, f.err
}

type fakeBookingRepo struct {
	bySession map[string]*domain.Booking
	byID      map[string]*domain.Booking

	depositPaidID    string
	paymentIntentID  *string
	customerID       *string
	balancePaidID    string
	calendarEventSet map[string]string
	transitionErr    error
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{
		bySession:        make(map[string]*domain.Booking),
		byID:             make(map[string]*domain.Booking),
		calendarEventSet: make(map[string]string),
	}
	for _, b := range bookings {
		r.byID[b.ID] = b
		if b.StripeCheckoutSessionID != nil {
			r.bySession[*b.StripeCheckoutSessionID] = b
		}
	}
	return r
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, booking.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByStripeSession(_ context.Context, sessionID string) (*domain.Booking, error) {
	if b, ok := f.bySession[sessionID]; ok {
		return b, nil
	}
	return nil, booking.ErrBookingNotFound
}

func (f *fakeBookingRepo) SetDepositPaid(_ context.Context, id string, paymentIntentID, customerID *string) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.depositPaidID = id
	f.paymentIntentID = paymentIntentID
	f.customerID = customerID
	return nil
}

func (f *fakeBookingRepo) SetBalancePaid(_ context.Context, id string) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.balancePaidID = id
	return nil
}

func (f *fakeBookingRepo) SetCalendarEvent(_ context.Context, id, eventID string) error {
	f.calendarEventSet[id] = eventID
	return nil
}

type fakeEventRepo struct {
	inserted bool
	recorded []string
}

func (f *fakeEventRepo) Record(_ context.Context, _, eventID, _ string, _ int64) (bool, error) {
	f.recorded = append(f.recorded, eventID)
	return f.inserted, nil
}

type fakeCalendar struct {
	created   []gcalendar.EventInput
	recolored map[string]string
	createErr error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, input gcalendar.EventInput) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, input)
	return "cal-evt-1", nil
}

func (f *fakeCalendar) UpdateEventColor(_ context.Context, eventID, colorID string) error {
	if f.recolored == nil {
		f.recolored = make(map[string]string)
	}
	f.recolored[eventID] = colorID
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

var london = func() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
	return loc
}()

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:                      "TPD-20260410-AB12",
		Status:                  domain.StatusPendingDeposit,
		CustomerName:            "Sam Carter",
		CustomerEmail:           "sam@example.com",
		CustomerPhone:           "07700900123",
		Postcode:                "TN1 1AA",
		VehicleReg:              "GF20 XYZ",
		ServiceIDs:              []string{domain.ServiceDiagnosticCallout},
		SlotStart:               time.Date(2026, 4, 12, 10, 0, 0, 0, london),
		SlotEnd:                 time.Date(2026, 4, 12, 11, 0, 0, 0, london),
		TravelBufferMins:        45,
		TotalAmount:             12000,
		DepositAmount:           3000,
		BalanceDue:              9000,
		StripeCheckoutSessionID: ptr.Ptr("cs_dep_1"),
	}
}

func depositEvent() *stripepay.WebhookEvent {
	return &stripepay.WebhookEvent{
		ID:              "evt_1",
		Type:            "checkout.session.completed",
		SessionID:       "cs_dep_1",
		BookingID:       "TPD-20260410-AB12",
		PaymentType:     stripepay.PaymentTypeDeposit,
		AmountTotal:     3000,
		PaymentIntentID: "pi_1",
		CustomerID:      "cus_1",
	}
}

func newTestUseCase(repo *fakeBookingRepo, events *fakeEventRepo, cal *fakeCalendar, mailer *fakeMailer, stripeClient StripeClient) *UseCase {
	return NewUseCase(stripeClient, repo, events, cal, mailer, domain.DefaultCatalog(), Config{
		Location:      london,
		TechName:      "Dan",
		InternalEmail: "ops@booking.test",
	}, nopLogger{})
}

func TestExecute_InvalidSignature(t *testing.T) {
	uc := newTestUseCase(newFakeBookingRepo(), &fakeEventRepo{}, &fakeCalendar{}, &fakeMailer{},
		&fakeStripe{err: stripepay.ErrInvalidSignature})

	_, err := uc.Execute(context.Background(), &Request{Payload: []byte("{}"), Signature: "bad"})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestExecute_IgnoresOtherEventTypes(t *testing.T) {
	events := &fakeEventRepo{inserted: true}
	uc := newTestUseCase(newFakeBookingRepo(), events, &fakeCalendar{}, &fakeMailer{},
		&fakeStripe{event: &stripepay.WebhookEvent{ID: "evt_x", Type: "payment_intent.created"}})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.False(t, res.Handled)
	assert.Empty(t, events.recorded)
}

func TestExecute_UnknownSessionAcked(t *testing.T) {
	event := depositEvent()
	event.BookingID = ""
	uc := newTestUseCase(newFakeBookingRepo(), &fakeEventRepo{inserted: true}, &fakeCalendar{}, &fakeMailer{},
		&fakeStripe{event: event})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.False(t, res.Handled)
}

func TestExecute_DepositPaid(t *testing.T) {
	b := pendingBooking()
	repo := newFakeBookingRepo(b)
	cal := &fakeCalendar{}
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, &fakeEventRepo{inserted: true}, cal, mailer, &fakeStripe{event: depositEvent()})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.True(t, res.Handled)
	assert.Equal(t, b.ID, res.BookingID)
	assert.Equal(t, b.ID, repo.depositPaidID)
	require.NotNil(t, repo.paymentIntentID)
	assert.Equal(t, "pi_1", *repo.paymentIntentID)
	require.NotNil(t, repo.customerID)
	assert.Equal(t, "cus_1", *repo.customerID)

	require.Len(t, cal.created, 1)
	assert.Equal(t, gcalendar.ColorPending, cal.created[0].ColorID)
	assert.Contains(t, cal.created[0].Description, "TP_BUFFER_MINUTES:45")
	assert.Contains(t, cal.created[0].Summary, b.ID)
	assert.Equal(t, "cal-evt-1", repo.calendarEventSet[b.ID])

	// Confirmation to the customer plus internal notification.
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"sam@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, b.ID)
	assert.Equal(t, []string{"ops@booking.test"}, mailer.sent[1].To)
}

func TestExecute_DepositCalendarFailureStillPays(t *testing.T) {
	b := pendingBooking()
	repo := newFakeBookingRepo(b)
	cal := &fakeCalendar{createErr: assert.AnError}
	uc := newTestUseCase(repo, &fakeEventRepo{inserted: true}, cal, &fakeMailer{}, &fakeStripe{event: depositEvent()})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.True(t, res.Handled)
	assert.Equal(t, b.ID, repo.depositPaidID)
	assert.Empty(t, repo.calendarEventSet)
}

func TestExecute_DuplicateEventIgnored(t *testing.T) {
	b := pendingBooking()
	repo := newFakeBookingRepo(b)
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, &fakeEventRepo{inserted: false}, &fakeCalendar{}, mailer, &fakeStripe{event: depositEvent()})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.False(t, res.Handled)
	assert.Empty(t, repo.depositPaidID)
	assert.Empty(t, mailer.sent)
}

func TestExecute_DepositOnNonPendingBookingSkipped(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusDepositPaid
	repo := newFakeBookingRepo(b)
	cal := &fakeCalendar{}
	uc := newTestUseCase(repo, &fakeEventRepo{inserted: true}, cal, &fakeMailer{}, &fakeStripe{event: depositEvent()})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.False(t, res.Handled)
	assert.Empty(t, repo.depositPaidID)
	assert.Empty(t, cal.created)
}

func TestExecute_BalancePaid(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusCompletedUnpaid
	b.StripeBalanceSessionID = ptr.Ptr("cs_bal_1")
	b.CalendarEventID = ptr.Ptr("cal-evt-1")
	repo := newFakeBookingRepo(b)
	repo.bySession["cs_bal_1"] = b
	cal := &fakeCalendar{}
	mailer := &fakeMailer{}

	event := depositEvent()
	event.ID = "evt_2"
	event.SessionID = "cs_bal_1"
	event.PaymentType = stripepay.PaymentTypeBalance
	event.AmountTotal = 9000

	uc := newTestUseCase(repo, &fakeEventRepo{inserted: true}, cal, mailer, &fakeStripe{event: event})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.True(t, res.Handled)
	assert.Equal(t, b.ID, repo.balancePaidID)
	assert.Equal(t, gcalendar.ColorCompletedPaid, cal.recolored["cal-evt-1"])
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"sam@example.com"}, mailer.sent[0].To)
}

func TestExecute_BalanceIllegalTransitionAcked(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusCompletedPaid
	repo := newFakeBookingRepo(b)
	repo.transitionErr = booking.ErrIllegalTransition

	event := depositEvent()
	event.PaymentType = stripepay.PaymentTypeBalance

	uc := newTestUseCase(repo, &fakeEventRepo{inserted: true}, &fakeCalendar{}, &fakeMailer{}, &fakeStripe{event: event})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.False(t, res.Handled)
}

func TestExecute_FallbackLookupByBookingID(t *testing.T) {
	b := pendingBooking()
	b.StripeCheckoutSessionID = nil
	repo := newFakeBookingRepo(b)
	uc := newTestUseCase(repo, &fakeEventRepo{inserted: true}, &fakeCalendar{}, &fakeMailer{}, &fakeStripe{event: depositEvent()})

	res, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	assert.True(t, res.Handled)
	assert.Equal(t, b.ID, repo.depositPaidID)
}
