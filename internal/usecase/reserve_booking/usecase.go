package reserve_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
	"github.com/tripointhq/TPD-BookingService/internal/service/zoning"
)

// penceFactor перевод фунтов в пенсы для хранения
const penceFactor = 100

// Config параметры use case резервации
type Config struct {
	Location      *time.Location
	PendingTTL    time.Duration
	SiteURL       string
	InternalEmail string
}

// UseCase use case атомарной резервации слота
type UseCase struct {
	bookingRepo    BookingRepository
	zoningService  ZoningService
	pricingService PricingService
	mailer         Mailer
	txManager      TransactionManager
	cfg            Config
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	zoningService ZoningService,
	pricingService PricingService,
	mailer Mailer,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		zoningService:  zoningService,
		pricingService: pricingService,
		mailer:         mailer,
		txManager:      txManager,
		cfg:            cfg,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case резервации слота.
// Проверка пересечений и вставка выполняются в одной сериализуемой
// транзакции: два клиента не могут удержать один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveBooking: postcode=%s slot=%s services=%v",
		req.Postcode, req.SlotStart.Format(time.RFC3339), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Резолвим бандл услуг
	bundle, err := uc.pricingService.Bundle(req.ServiceIDs)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownService) {
			uc.logger.Warn("ReserveBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUnknownService, err)
		}
		return nil, fmt.Errorf("%w: failed to resolve bundle: %v", ErrInternal, err)
	}

	// 3. Классифицируем посткод
	zoneResult, err := uc.zoningService.Classify(ctx, req.Postcode)
	if err != nil {
		if errors.Is(err, zoning.ErrRouteUnavailable) {
			uc.logger.Error("ReserveBooking: route unavailable for %s", req.Postcode)
			return nil, ErrRouteUnavailable
		}
		if errors.Is(err, zoning.ErrInvalidPostcode) {
			return nil, fmt.Errorf("%w: invalid postcode", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: classify failed: %v", ErrInternal, err)
	}

	// 4. Незонируемые посткоды не бронируются онлайн: заявка уходит
	// на ручное рассмотрение письмом
	if !zoneResult.Zone.Serviceable() {
		uc.sendManualReviewEmail(ctx, req, zoneResult)
		return &Response{
			Status: StatusPendingManualReview,
			Zone:   string(zoneResult.Zone),
		}, nil
	}

	now := uc.timeProvider.Now().In(uc.cfg.Location)
	slotStart := req.SlotStart.In(uc.cfg.Location)

	requirements := uc.pricingService.Requirements(bundle)

	// 5. Проверяем слот против сетки, notice и горизонта
	if err := validateSlotStart(slotStart, now, requirements.MaxNoticeHours); err != nil {
		uc.logger.Warn("ReserveBooking: slot validation failed: %v", err)
		return nil, err
	}

	travelBufferMins := uc.pricingService.TravelBuffer(zoneResult.DriveTimeMins, bundle)
	slotEnd := slotStart.Add(time.Duration(requirements.DurationMins) * time.Minute)

	priceGBP := uc.pricingService.FixedPrice(bundle, zoneResult.Zone, slotStart)
	depositGBP := uc.pricingService.Deposit(bundle, zoneResult.Zone)
	if priceGBP == nil || depositGBP == nil {
		return nil, fmt.Errorf("%w: pricing unavailable for zone %s", ErrInternal, zoneResult.Zone)
	}

	totalPence := *priceGBP * penceFactor
	depositPence := *depositGBP * penceFactor

	// 6. Снимаем просроченные неоплаченные брони до проверки пересечений
	if expired, err := uc.bookingRepo.ExpirePending(ctx, now.Add(-uc.cfg.PendingTTL)); err != nil {
		uc.logger.Error("ReserveBooking: expire pending failed: %v", err)
	} else if expired > 0 {
		uc.logger.Info("ReserveBooking: cancelled %d stale bookings", expired)
	}

	booking := &domain.Booking{
		ID:               domain.NewBookingID(now),
		Status:           domain.StatusPendingDeposit,
		PaymentLinkToken: domain.NewPaymentToken(),
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		Postcode:         req.Postcode,
		AddressLine:      req.AddressLine,
		SafeLocation:     req.SafeLocation,
		VehicleReg:       req.VehicleReg,
		VehicleMake:      req.VehicleMake,
		VehicleModel:     req.VehicleModel,
		FaultSummary:     req.FaultSummary,
		ServiceIDs:       req.ServiceIDs,
		SlotStart:        slotStart,
		SlotEnd:          slotEnd,
		Zone:             zoneResult.Zone,
		DriveTimeMins:    zoneResult.DriveTimeMins,
		TravelBufferMins: travelBufferMins,
		TotalAmount:      totalPence,
		DepositAmount:    depositPence,
		BalanceDue:       totalPence - depositPence,
		Currency:         "gbp",
	}

	// 7. Проверка пересечений и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Окно расширено на максимальный буфер: соседние брони за границами
		// слота могут пересекаться буферами.
		maxBuffer := time.Duration(domain.MaxTravelBufferMins) * time.Minute
		active, err := uc.bookingRepo.GetActiveInWindow(txCtx,
			slotStart.Add(-maxBuffer), slotEnd.Add(maxBuffer))
		if err != nil {
			return fmt.Errorf("%w: failed to get active bookings: %v", ErrInternal, err)
		}

		buffer := time.Duration(travelBufferMins) * time.Minute
		bufferedStart := slotStart.Add(-buffer)
		bufferedEnd := slotEnd.Add(buffer)

		for _, existing := range active {
			existingBuffer := time.Duration(existing.TravelBufferMins) * time.Minute
			occupied := domain.BlockedInterval{
				Start: existing.SlotStart.Add(-existingBuffer),
				End:   existing.SlotEnd.Add(existingBuffer),
			}
			if occupied.Overlaps(bufferedStart, bufferedEnd) {
				uc.logger.Warn("ReserveBooking: slot %s conflicts with booking %s",
					slotStart.Format(time.RFC3339), existing.ID)
				return ErrSlotNotAvailable
			}
		}

		_, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReserveBooking: created booking=%s slot=%s zone=%s total=%dp deposit=%dp",
		booking.ID, slotStart.Format(time.RFC3339), booking.Zone, totalPence, depositPence)

	// 8. Письма после коммита: их сбой не откатывает резервацию
	uc.sendPendingDepositEmails(ctx, booking, bundle)

	return &Response{
		Status:           StatusPendingDeposit,
		BookingID:        booking.ID,
		PaymentURL:       uc.paymentURL(booking.PaymentLinkToken),
		SlotStart:        &booking.SlotStart,
		SlotEnd:          &booking.SlotEnd,
		Zone:             string(booking.Zone),
		TotalAmountPence: booking.TotalAmount,
		DepositPence:     booking.DepositAmount,
		BalancePence:     booking.BalanceDue,
	}, nil
}

func (uc *UseCase) paymentURL(token string) string {
	return fmt.Sprintf("%s/pay/%s", strings.TrimRight(uc.cfg.SiteURL, "/"), token)
}

func (uc *UseCase) sendManualReviewEmail(ctx context.Context, req *Request, zoneResult *domain.ZoneResult) {
	uc.logger.Info("ReserveBooking: postcode=%s out of area, requesting manual review", req.Postcode)

	body := fmt.Sprintf(
		"Out-of-area booking request.\n\nCustomer: %s\nEmail: %s\nPhone: %s\nPostcode: %s\nVehicle: %s\nServices: %s\nRequested slot: %s\nDrive time: %d min (nearest base %s)\n",
		req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.Postcode,
		req.VehicleReg, strings.Join(req.ServiceIDs, ", "),
		req.SlotStart.Format(time.RFC3339), zoneResult.DriveTimeMins, zoneResult.BaseName)

	err := uc.mailer.Send(ctx, zohomail.Message{
		To:       []string{uc.cfg.InternalEmail},
		ReplyTo:  req.CustomerEmail,
		Subject:  fmt.Sprintf("Manual review needed: %s (%s)", req.CustomerName, req.Postcode),
		TextBody: body,
	})
	if err != nil {
		uc.logger.Error("ReserveBooking: manual review email failed: %v", err)
	}
}

func (uc *UseCase) sendPendingDepositEmails(ctx context.Context, booking *domain.Booking, bundle []domain.ServiceDefinition) {
	labels := make([]string, len(bundle))
	for i, def := range bundle {
		labels[i] = def.Label
	}

	payURL := uc.paymentURL(booking.PaymentLinkToken)
	slot := booking.SlotStart.Format("Mon 2 Jan 2006, 15:04")

	customerBody := fmt.Sprintf(
		"Hi %s,\n\nYour visit is reserved for %s.\n\nServices: %s\nVehicle: %s\nTotal: £%d.%02d\nDeposit to secure the slot: £%d.%02d\n\nPay the deposit within 30 minutes to confirm the booking:\n%s\n\nThe slot is released automatically if the deposit is not paid in time.\n",
		booking.CustomerName, slot, strings.Join(labels, ", "), booking.VehicleReg,
		booking.TotalAmount/penceFactor, booking.TotalAmount%penceFactor,
		booking.DepositAmount/penceFactor, booking.DepositAmount%penceFactor,
		payURL)

	if err := uc.mailer.Send(ctx, zohomail.Message{
		To:       []string{booking.CustomerEmail},
		Subject:  fmt.Sprintf("Action needed: secure your visit %s", booking.ID),
		TextBody: customerBody,
	}); err != nil {
		uc.logger.Error("ReserveBooking: customer email failed for booking=%s: %v", booking.ID, err)
	}

	internalBody := fmt.Sprintf(
		"New reservation %s (awaiting deposit).\n\nCustomer: %s (%s, %s)\nPostcode: %s\nVehicle: %s\nServices: %s\nSlot: %s\nZone: %s, drive time %d min\n",
		booking.ID, booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone,
		booking.Postcode, booking.VehicleReg, strings.Join(labels, ", "),
		slot, booking.Zone, booking.DriveTimeMins)

	if err := uc.mailer.Send(ctx, zohomail.Message{
		To:       []string{uc.cfg.InternalEmail},
		Subject:  fmt.Sprintf("New reservation %s", booking.ID),
		TextBody: internalBody,
	}); err != nil {
		uc.logger.Error("ReserveBooking: internal email failed for booking=%s: %v", booking.ID, err)
	}
}
