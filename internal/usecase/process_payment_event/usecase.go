package process_payment_event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/infra/storage/booking"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	"github.com/tripointhq/TPD-BookingService/internal/service/intervals"
)

const penceFactor = 100

// Config параметры обработчика платежных событий
type Config struct {
	Location      *time.Location
	TechName      string
	InternalEmail string
}

// UseCase use case обработки webhook платежного провайдера
type UseCase struct {
	stripeClient StripeClient
	bookingRepo  BookingRepository
	eventRepo    PaymentEventRepository
	calendar     CalendarClient
	mailer       Mailer
	catalog      *domain.Catalog
	cfg          Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	stripeClient StripeClient,
	bookingRepo BookingRepository,
	eventRepo PaymentEventRepository,
	calendar CalendarClient,
	mailer Mailer,
	catalog *domain.Catalog,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		stripeClient: stripeClient,
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		calendar:     calendar,
		mailer:       mailer,
		catalog:      catalog,
		cfg:          cfg,
		logger:       logger,
	}
}

// Execute проверяет подпись, разбирает событие и применяет его к бронированию.
// Каждое событие провайдера применяется не более одного раза: запись в журнале
// payment_events решает, кто из конкурирующих доставок выиграл.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	event, err := uc.stripeClient.VerifyWebhook(req.Payload, req.Signature)
	if err != nil {
		if errors.Is(err, stripepay.ErrInvalidSignature) {
			uc.logger.Warn("ProcessPaymentEvent: signature verification failed: %v", err)
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: failed to parse webhook: %v", ErrInternal, err)
	}

	// Неинтересные типы событий подтверждаем без обработки
	if !event.IsCheckoutCompleted() {
		uc.logger.Info("ProcessPaymentEvent: ignoring event=%s type=%s", event.ID, event.Type)
		return &Result{Handled: false, EventType: event.Type}, nil
	}

	b, err := uc.lookupBooking(ctx, event)
	if err != nil {
		return nil, err
	}
	if b == nil {
		// Сессия не наша: подтверждаем, чтобы провайдер не ретраил вечно
		uc.logger.Warn("ProcessPaymentEvent: no booking for session=%s event=%s", event.SessionID, event.ID)
		return &Result{Handled: false, EventType: event.Type}, nil
	}

	inserted, err := uc.eventRepo.Record(ctx, b.ID, event.ID, event.Type, event.AmountTotal)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to record payment event: %v", ErrInternal, err)
	}
	if !inserted {
		uc.logger.Info("ProcessPaymentEvent: duplicate event=%s booking=%s", event.ID, b.ID)
		return &Result{Handled: false, BookingID: b.ID, EventType: event.Type}, nil
	}

	switch event.PaymentType {
	case stripepay.PaymentTypeDeposit:
		return uc.applyDeposit(ctx, b, event)
	case stripepay.PaymentTypeBalance:
		return uc.applyBalance(ctx, b, event)
	default:
		uc.logger.Warn("ProcessPaymentEvent: unknown payment type %q event=%s booking=%s",
			event.PaymentType, event.ID, b.ID)
		return &Result{Handled: false, BookingID: b.ID, EventType: event.Type}, nil
	}
}

// lookupBooking находит бронирование по ID сессии либо по booking_id
// из метаданных. nil без ошибки означает "не найдено".
func (uc *UseCase) lookupBooking(ctx context.Context, event *stripepay.WebhookEvent) (*domain.Booking, error) {
	b, err := uc.bookingRepo.GetByStripeSession(ctx, event.SessionID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, booking.ErrBookingNotFound) {
		return nil, fmt.Errorf("%w: failed to get booking by session: %v", ErrInternal, err)
	}

	if event.BookingID == "" {
		return nil, nil
	}

	b, err = uc.bookingRepo.GetByID(ctx, event.BookingID)
	if errors.Is(err, booking.ErrBookingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get booking by id: %v", ErrInternal, err)
	}
	return b, nil
}

func (uc *UseCase) applyDeposit(ctx context.Context, b *domain.Booking, event *stripepay.WebhookEvent) (*Result, error) {
	if b.Status != domain.StatusPendingDeposit {
		// Депозит по уже обработанному или отмененному бронированию:
		// деньги взяты, но переход не выполняем
		uc.logger.Warn("ProcessPaymentEvent: deposit for booking=%s in status=%s, skipping transition",
			b.ID, b.Status)
		return &Result{Handled: false, BookingID: b.ID, EventType: event.Type}, nil
	}

	// Событие календаря создаем до перехода статуса: его сбой не должен
	// потерять оплату, поэтому ошибки только логируются
	if b.CalendarEventID == nil {
		uc.createCalendarEvent(ctx, b)
	}

	var paymentIntentID, customerID *string
	if event.PaymentIntentID != "" {
		paymentIntentID = &event.PaymentIntentID
	}
	if event.CustomerID != "" {
		customerID = &event.CustomerID
	}

	if err := uc.bookingRepo.SetDepositPaid(ctx, b.ID, paymentIntentID, customerID); err != nil {
		if errors.Is(err, booking.ErrIllegalTransition) {
			uc.logger.Warn("ProcessPaymentEvent: booking=%s already transitioned", b.ID)
			return &Result{Handled: false, BookingID: b.ID, EventType: event.Type}, nil
		}
		return nil, fmt.Errorf("%w: failed to set deposit paid: %v", ErrInternal, err)
	}

	uc.logger.Info("ProcessPaymentEvent: deposit paid booking=%s amount=%dp", b.ID, event.AmountTotal)
	uc.sendDepositConfirmation(ctx, b)

	return &Result{Handled: true, BookingID: b.ID, EventType: event.Type}, nil
}

func (uc *UseCase) applyBalance(ctx context.Context, b *domain.Booking, event *stripepay.WebhookEvent) (*Result, error) {
	if err := uc.bookingRepo.SetBalancePaid(ctx, b.ID); err != nil {
		if errors.Is(err, booking.ErrIllegalTransition) {
			uc.logger.Warn("ProcessPaymentEvent: balance for booking=%s in status=%s, skipping transition",
				b.ID, b.Status)
			return &Result{Handled: false, BookingID: b.ID, EventType: event.Type}, nil
		}
		return nil, fmt.Errorf("%w: failed to set balance paid: %v", ErrInternal, err)
	}

	if b.CalendarEventID != nil {
		if err := uc.calendar.UpdateEventColor(ctx, *b.CalendarEventID, gcalendar.ColorCompletedPaid); err != nil {
			uc.logger.Error("ProcessPaymentEvent: recolor failed for booking=%s: %v", b.ID, err)
		}
	}

	uc.logger.Info("ProcessPaymentEvent: balance paid booking=%s amount=%dp", b.ID, event.AmountTotal)
	uc.sendBalanceReceipt(ctx, b)

	return &Result{Handled: true, BookingID: b.ID, EventType: event.Type}, nil
}

// createCalendarEvent создает событие в календаре техника на буферизованное
// окно визита. Тег в описании позволяет слою интервалов восстановить буфер.
func (uc *UseCase) createCalendarEvent(ctx context.Context, b *domain.Booking) {
	description := fmt.Sprintf(
		"Booking %s\nCustomer: %s (%s, %s)\nPostcode: %s\nVehicle: %s\nServices: %s\nDeposit paid, balance due £%d.%02d\n\n%s",
		b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.Postcode, b.VehicleReg, strings.Join(uc.serviceLabels(b), ", "),
		b.BalanceDue/penceFactor, b.BalanceDue%penceFactor,
		intervals.BufferTag(b.TravelBufferMins))

	eventID, err := uc.calendar.CreateEvent(ctx, gcalendar.EventInput{
		Summary:     fmt.Sprintf("%s: %s %s (%s)", uc.cfg.TechName, b.ID, b.VehicleReg, b.Postcode),
		Description: description,
		Start:       b.SlotStart.In(uc.cfg.Location),
		End:         b.SlotEnd.In(uc.cfg.Location),
		ColorID:     gcalendar.ColorPending,
	})
	if err != nil {
		uc.logger.Error("ProcessPaymentEvent: calendar event failed for booking=%s: %v", b.ID, err)
		return
	}

	if err := uc.bookingRepo.SetCalendarEvent(ctx, b.ID, eventID); err != nil {
		uc.logger.Error("ProcessPaymentEvent: save calendar event id failed for booking=%s: %v", b.ID, err)
	}
}

func (uc *UseCase) serviceLabels(b *domain.Booking) []string {
	labels := make([]string, 0, len(b.ServiceIDs))
	for _, id := range b.ServiceIDs {
		if def, err := uc.catalog.Get(id); err == nil {
			labels = append(labels, def.Label)
		} else {
			labels = append(labels, id)
		}
	}
	return labels
}

func (uc *UseCase) sendDepositConfirmation(ctx context.Context, b *domain.Booking) {
	slot := b.SlotStart.In(uc.cfg.Location).Format("Mon 2 Jan 2006, 15:04")

	customerBody := fmt.Sprintf(
		"Hi %s,\n\nYour deposit is received and the visit is confirmed.\n\nBooking: %s\nSlot: %s\nVehicle: %s\nServices: %s\nBalance due on the day: £%d.%02d\n\n%s will come to %s.\n",
		b.CustomerName, b.ID, slot, b.VehicleReg, strings.Join(uc.serviceLabels(b), ", "),
		b.BalanceDue/penceFactor, b.BalanceDue%penceFactor,
		uc.cfg.TechName, b.Postcode)

	if err := uc.mailer.Send(ctx, zohomail.Message{
		To:       []string{b.CustomerEmail},
		Subject:  fmt.Sprintf("Booking confirmed: %s", b.ID),
		TextBody: customerBody,
	}); err != nil {
		uc.logger.Error("ProcessPaymentEvent: confirmation email failed for booking=%s: %v", b.ID, err)
	}

	internalBody := fmt.Sprintf(
		"Deposit paid for %s.\n\nCustomer: %s (%s, %s)\nPostcode: %s\nVehicle: %s\nSlot: %s\nBalance due: £%d.%02d\n",
		b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.Postcode, b.VehicleReg, slot,
		b.BalanceDue/penceFactor, b.BalanceDue%penceFactor)

	if err := uc.mailer.Send(ctx, zohomail.Message{
		To:       []string{uc.cfg.InternalEmail},
		Subject:  fmt.Sprintf("Deposit paid: %s", b.ID),
		TextBody: internalBody,
	}); err != nil {
		uc.logger.Error("ProcessPaymentEvent: internal email failed for booking=%s: %v", b.ID, err)
	}
}

func (uc *UseCase) sendBalanceReceipt(ctx context.Context, b *domain.Booking) {
	body := fmt.Sprintf(
		"Hi %s,\n\nPayment received, booking %s is settled in full.\n\nThank you for choosing us.\n",
		b.CustomerName, b.ID)

	if err := uc.mailer.Send(ctx, zohomail.Message{
		To:       []string{b.CustomerEmail},
		Subject:  fmt.Sprintf("Payment received: %s", b.ID),
		TextBody: body,
	}); err != nil {
		uc.logger.Error("ProcessPaymentEvent: receipt email failed for booking=%s: %v", b.ID, err)
	}
}
