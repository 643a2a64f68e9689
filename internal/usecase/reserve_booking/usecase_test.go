package reserve_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	"github.com/tripointhq/TPD-BookingService/internal/service/pricing"
	"github.com/tripointhq/TPD-BookingService/internal/service/zoning"
)

var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fakeBookingRepo struct {
	active  []*domain.Booking
	created []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBookingRepo) GetActiveInWindow(context.Context, time.Time, time.Time) ([]*domain.Booking, error) {
	return f.active, nil
}

func (f *fakeBookingRepo) ExpirePending(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeZoning struct {
	result *domain.ZoneResult
	err    error
}

func (f *fakeZoning) Classify(context.Context, string) (*domain.ZoneResult, error) {
	return f.result, f.err
}

type fakeMailer struct {
	sent []zohomail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg zohomail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

// passthroughTxManager выполняет функцию без настоящей транзакции
type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 4, 10, 9, 0, 0, 0, london)

func validRequest() *Request {
	return &Request{
		CustomerName:  "Sam Carter",
		CustomerEmail: "sam@example.com",
		CustomerPhone: "07700900123",
		Postcode:      "TN1 1AA",
		SafeLocation:  true,
		VehicleReg:    "GF20 XYZ",
		ServiceIDs:    []string{domain.ServicePriorityTriage},
		SlotStart:     time.Date(2026, 4, 10, 14, 0, 0, 0, london),
	}
}

func zoneA() *domain.ZoneResult {
	return &domain.ZoneResult{Zone: domain.ZoneA, DriveTimeMins: 20, BaseName: "Tonbridge"}
}

func newTestUseCase(repo *fakeBookingRepo, zoner ZoningService, mailer *fakeMailer, tx TransactionManager) *UseCase {
	uc := NewUseCase(repo, zoner, pricing.NewService(domain.DefaultCatalog()), mailer, tx, Config{
		Location:      london,
		PendingTTL:    30 * time.Minute,
		SiteURL:       "https://booking.test",
		InternalEmail: "ops@booking.test",
	}, nopLogger{})
	uc.timeProvider = fixedTime{t: testNow}
	return uc
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeBookingRepo{}
	mailer := &fakeMailer{}
	tx := &passthroughTxManager{}
	uc := newTestUseCase(repo, &fakeZoning{result: zoneA()}, mailer, tx)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPendingDeposit, resp.Status)
	assert.Regexp(t, `^TPD-20260410-[0-9A-F]{4}$`, resp.BookingID)
	assert.Equal(t, 1, tx.calls)
	require.Len(t, repo.created, 1)

	created := repo.created[0]
	assert.Equal(t, domain.StatusPendingDeposit, created.Status)
	// Priority triage in zone A: £160 total, £50 deposit.
	assert.Equal(t, int64(16000), created.TotalAmount)
	assert.Equal(t, int64(5000), created.DepositAmount)
	assert.Equal(t, int64(11000), created.BalanceDue)
	// 20 min drive + 30 min service buffer.
	assert.Equal(t, 50, created.TravelBufferMins)
	assert.Equal(t, created.SlotStart.Add(75*time.Minute), created.SlotEnd)

	assert.Contains(t, resp.PaymentURL, "https://booking.test/pay/")

	// Customer payment link plus internal notification.
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"sam@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].TextBody, resp.PaymentURL)
	assert.Equal(t, []string{"ops@booking.test"}, mailer.sent[1].To)
}

func TestExecute_OutOfAreaGoesToManualReview(t *testing.T) {
	repo := &fakeBookingRepo{}
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, &fakeZoning{result: &domain.ZoneResult{
		Zone: domain.ZoneOutOfArea, DriveTimeMins: 95, BaseName: "Tonbridge",
	}}, mailer, &passthroughTxManager{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPendingManualReview, resp.Status)
	assert.Empty(t, resp.BookingID)
	assert.Empty(t, repo.created)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"ops@booking.test"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "Manual review")
}

func TestExecute_SlotConflict(t *testing.T) {
	existing := &domain.Booking{
		ID:               "TPD-20260409-AAAA",
		Status:           domain.StatusDepositPaid,
		SlotStart:        time.Date(2026, 4, 10, 13, 0, 0, 0, london),
		SlotEnd:          time.Date(2026, 4, 10, 14, 0, 0, 0, london),
		TravelBufferMins: 30,
	}
	repo := &fakeBookingRepo{active: []*domain.Booking{existing}}
	uc := newTestUseCase(repo, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	// Candidate buffered window starts 13:10, existing buffered window ends 14:30.
	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, repo.created)
}

func TestExecute_TouchingBuffersAllowed(t *testing.T) {
	existing := &domain.Booking{
		ID:               "TPD-20260409-AAAA",
		Status:           domain.StatusDepositPaid,
		SlotStart:        time.Date(2026, 4, 10, 11, 0, 0, 0, london),
		SlotEnd:          time.Date(2026, 4, 10, 12, 0, 0, 0, london),
		TravelBufferMins: 40,
	}
	repo := &fakeBookingRepo{active: []*domain.Booking{existing}}
	uc := newTestUseCase(repo, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	// Existing occupies up to 12:40; candidate buffered window opens exactly at 12:40.
	req := validRequest()
	req.SlotStart = time.Date(2026, 4, 10, 13, 30, 0, 0, london)

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestExecute_OffGridSlotRejected(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.SlotStart = time.Date(2026, 4, 10, 14, 15, 0, 0, london)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlotStart)
}

func TestExecute_OutsideWorkdayRejected(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.SlotStart = time.Date(2026, 4, 11, 5, 30, 0, 0, london)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlotStart)
}

func TestExecute_InsufficientNotice(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	// Diagnostic callout needs 24h notice; the slot is only 5h away.
	req := validRequest()
	req.ServiceIDs = []string{domain.ServiceDiagnosticCallout}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInsufficientNotice)
}

func TestExecute_BeyondWindow(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.SlotStart = time.Date(2026, 5, 12, 10, 0, 0, 0, london)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBeyondWindow)
}

func TestExecute_UnknownService(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.ServiceIDs = []string{"engine-rebuild"}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestExecute_RouteUnavailable(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{err: zoning.ErrRouteUnavailable}, &fakeMailer{}, &passthroughTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestExecute_InvalidEmail(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.CustomerEmail = "not-an-email"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_SafeLocationNotConfirmed(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.SafeLocation = false

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_LateNightCalloutPricing(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeZoning{result: zoneA()}, &fakeMailer{}, &passthroughTxManager{})

	req := validRequest()
	req.ServiceIDs = []string{domain.ServiceDiagnosticCallout}
	req.SlotStart = time.Date(2026, 4, 12, 21, 0, 0, 0, london)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 120 base + 20 out-of-hours + 40 late-night callout = £180.
	assert.Equal(t, int64(18000), resp.TotalAmountPence)
	assert.Equal(t, int64(3000), resp.DepositPence)
}
