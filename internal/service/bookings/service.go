package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	bookingRepo "github.com/tripointhq/TPD-BookingService/internal/infra/storage/booking"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/stripepay"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	"github.com/tripointhq/TPD-BookingService/internal/service/bookings/models"
)

// Service операции над существующими бронированиями: платежная страница
// клиента и действия админ-панели
type Service struct {
	bookingRepo      BookingRepository
	paymentEventRepo PaymentEventRepository
	stripeClient     StripeClient
	calendarClient   CalendarClient
	mailer           Mailer
	catalog          *domain.Catalog
	pendingTTL       time.Duration
	siteURL          string
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentEventRepo PaymentEventRepository,
	stripeClient StripeClient,
	calendarClient CalendarClient,
	mailer Mailer,
	catalog *domain.Catalog,
	pendingTTL time.Duration,
	siteURL string,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		paymentEventRepo: paymentEventRepo,
		stripeClient:     stripeClient,
		calendarClient:   calendarClient,
		mailer:           mailer,
		catalog:          catalog,
		pendingTTL:       pendingTTL,
		siteURL:          siteURL,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// GetByToken получает бронирование по токену платежной страницы.
// Просроченные неоплаченные бронирования предварительно отменяются,
// чтобы клиент по старой ссылке не оплатил отмененный слот.
func (s *Service) GetByToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	s.expireStalePending(ctx)

	booking, err := s.bookingRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByToken - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking, s.catalog), nil
}

// List получает бронирования для админ-панели
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter := bookingRepo.ListFilter{
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status filter %q", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings, s.catalog), nil
}

// Complete отмечает выезд выполненным (DEPOSIT_PAID -> COMPLETED_UNPAID).
// Событие календаря перекрашивается; ошибка календаря не откатывает переход.
func (s *Service) Complete(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking=%s", bookingID)

	if err := s.bookingRepo.MarkCompleted(ctx, bookingID); err != nil {
		return nil, s.mapTransitionErr("Complete", bookingID, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Complete: fetch after update failed for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.recolorCalendarEvent(ctx, booking, gcalendar.ColorCompletedUnpaid)
	s.sendBalanceRequest(ctx, booking)

	return models.FromDomainBooking(booking, s.catalog), nil
}

// MarkPaid отмечает остаток оплаченным вне платежного провайдера
// (наличные или банковский перевод). Запись в журнале платежных событий
// делает операцию идемпотентной наравне с webhook-ами.
func (s *Service) MarkPaid(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	s.logger.Info("MarkPaid: booking=%s", bookingID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeMarkedPaid() {
		return nil, ErrIllegalTransition
	}

	eventID := fmt.Sprintf("admin-mark-paid-%s", bookingID)
	inserted, err := s.paymentEventRepo.Record(ctx, bookingID, eventID, "admin.mark_paid", booking.BalanceDue)
	if err != nil {
		s.logger.Error("MarkPaid: ledger error for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: MarkPaid - ledger error: %v", ErrInternal, err)
	}

	if inserted {
		if err := s.bookingRepo.SetBalancePaid(ctx, bookingID); err != nil {
			return nil, s.mapTransitionErr("MarkPaid", bookingID, err)
		}
		s.recolorCalendarEvent(ctx, booking, gcalendar.ColorCompletedPaid)
	} else {
		s.logger.Warn("MarkPaid: booking=%s already marked paid, ignoring", bookingID)
	}

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(updated, s.catalog), nil
}

// CreateDepositSession создает checkout-сессию для оплаты депозита
func (s *Service) CreateDepositSession(ctx context.Context, token string) (*models.CheckoutResponse, error) {
	booking, err := s.getForPayment(ctx, token)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPendingDeposit {
		return nil, ErrIllegalTransition
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, stripepay.CheckoutParams{
		BookingID:     booking.ID,
		PaymentToken:  booking.PaymentLinkToken,
		PaymentType:   stripepay.PaymentTypeDeposit,
		AmountPence:   booking.DepositAmount,
		Currency:      booking.Currency,
		Description:   fmt.Sprintf("Deposit for booking %s", booking.ID),
		CustomerEmail: booking.CustomerEmail,
	})
	if err != nil {
		s.logger.Error("CreateDepositSession: stripe error for booking=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: CreateDepositSession - stripe error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.SetDepositSession(ctx, booking.ID, session.ID); err != nil {
		s.logger.Error("CreateDepositSession: failed to store session for booking=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: CreateDepositSession - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateDepositSession: booking=%s session=%s", booking.ID, session.ID)
	return &models.CheckoutResponse{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// CreateBalanceSession создает checkout-сессию для оплаты остатка после выезда
func (s *Service) CreateBalanceSession(ctx context.Context, token string) (*models.CheckoutResponse, error) {
	booking, err := s.getForPayment(ctx, token)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusCompletedUnpaid {
		return nil, ErrIllegalTransition
	}
	if booking.BalanceDue <= 0 {
		return nil, ErrNoBalanceDue
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, stripepay.CheckoutParams{
		BookingID:     booking.ID,
		PaymentToken:  booking.PaymentLinkToken,
		PaymentType:   stripepay.PaymentTypeBalance,
		AmountPence:   booking.BalanceDue,
		Currency:      booking.Currency,
		Description:   fmt.Sprintf("Balance for booking %s", booking.ID),
		CustomerEmail: booking.CustomerEmail,
	})
	if err != nil {
		s.logger.Error("CreateBalanceSession: stripe error for booking=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: CreateBalanceSession - stripe error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.SetBalanceSession(ctx, booking.ID, session.ID); err != nil {
		s.logger.Error("CreateBalanceSession: failed to store session for booking=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: CreateBalanceSession - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBalanceSession: booking=%s session=%s", booking.ID, session.ID)
	return &models.CheckoutResponse{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

func (s *Service) getForPayment(ctx context.Context, token string) (*domain.Booking, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	s.expireStalePending(ctx)

	booking, err := s.bookingRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// expireStalePending отменяет просроченные неоплаченные бронирования.
// Ошибка не прерывает основной сценарий.
func (s *Service) expireStalePending(ctx context.Context) {
	cutoff := s.timeProvider.Now().Add(-s.pendingTTL)
	expired, err := s.bookingRepo.ExpirePending(ctx, cutoff)
	if err != nil {
		s.logger.Error("expireStalePending: %v", err)
		return
	}
	if expired > 0 {
		s.logger.Info("expireStalePending: cancelled %d stale bookings", expired)
	}
}

// sendBalanceRequest отправляет клиенту ссылку на оплату остатка.
// Сбой письма не откатывает завершение выезда.
func (s *Service) sendBalanceRequest(ctx context.Context, booking *domain.Booking) {
	if booking.BalanceDue <= 0 {
		return
	}

	payURL := fmt.Sprintf("%s/pay/%s", strings.TrimRight(s.siteURL, "/"), booking.PaymentLinkToken)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour visit %s is complete. The remaining balance is £%d.%02d.\n\nPay the balance here:\n%s\n",
		booking.CustomerName, booking.ID,
		booking.BalanceDue/100, booking.BalanceDue%100,
		payURL)

	err := s.mailer.Send(ctx, zohomail.Message{
		To:       []string{booking.CustomerEmail},
		Subject:  fmt.Sprintf("Balance due for visit %s", booking.ID),
		TextBody: body,
	})
	if err != nil {
		s.logger.Error("sendBalanceRequest: booking=%s: %v", booking.ID, err)
	}
}

func (s *Service) recolorCalendarEvent(ctx context.Context, booking *domain.Booking, colorID string) {
	if booking.CalendarEventID == nil {
		return
	}
	if err := s.calendarClient.UpdateEventColor(ctx, *booking.CalendarEventID, colorID); err != nil {
		s.logger.Warn("recolorCalendarEvent: booking=%s event=%s: %v", booking.ID, *booking.CalendarEventID, err)
	}
}

func (s *Service) mapTransitionErr(method, bookingID string, err error) error {
	if errors.Is(err, bookingRepo.ErrIllegalTransition) {
		s.logger.Warn("%s: illegal transition for booking=%s", method, bookingID)
		return ErrIllegalTransition
	}
	s.logger.Error("%s: repository error for booking=%s: %v", method, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
}
