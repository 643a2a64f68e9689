package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/service/zoning"
)

// UseCase use case построения сетки доступности для посткода и бандла услуг
type UseCase struct {
	zoningService    ZoningService
	pricingService   PricingService
	intervalsService IntervalsService
	bookingRepo      BookingRepository
	location         *time.Location
	pendingTTL       time.Duration
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	zoningService ZoningService,
	pricingService PricingService,
	intervalsService IntervalsService,
	bookingRepo BookingRepository,
	location *time.Location,
	pendingTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		zoningService:    zoningService,
		pricingService:   pricingService,
		intervalsService: intervalsService,
		bookingRepo:      bookingRepo,
		location:         location,
		pendingTTL:       pendingTTL,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: postcode=%s services=%v", req.Postcode, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Первый день сетки: запрошенная дата, но не раньше сегодняшнего дня
	now := uc.timeProvider.Now().In(uc.location)
	startDay, err := resolveStartDay(now, req.FromDate, uc.location)
	if err != nil {
		uc.logger.Warn("GetAvailability: %v", err)
		return nil, err
	}

	// 3. Резолвим бандл услуг
	bundle, err := uc.pricingService.Bundle(req.ServiceIDs)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownService) {
			uc.logger.Warn("GetAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUnknownService, err)
		}
		return nil, fmt.Errorf("%w: failed to resolve bundle: %v", ErrInternal, err)
	}

	// 4. Классифицируем посткод по зонам
	zoneResult, err := uc.zoningService.Classify(ctx, req.Postcode)
	if err != nil {
		if errors.Is(err, zoning.ErrRouteUnavailable) {
			uc.logger.Error("GetAvailability: route unavailable for %s", req.Postcode)
			return nil, ErrRouteUnavailable
		}
		if errors.Is(err, zoning.ErrInvalidPostcode) {
			return nil, fmt.Errorf("%w: invalid postcode", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: classify failed: %v", ErrInternal, err)
	}

	// 5. Незонируемые посткоды идут на ручное рассмотрение, сетка не строится
	if !zoneResult.Zone.Serviceable() {
		uc.logger.Info("GetAvailability: postcode=%s out of area (drive_time=%dmin)",
			req.Postcode, zoneResult.DriveTimeMins)
		return &Response{
			Zone:          string(zoneResult.Zone),
			DriveTimeMins: zoneResult.DriveTimeMins,
			ManualReview:  true,
			Days:          []Day{},
		}, nil
	}

	requirements := uc.pricingService.Requirements(bundle)
	travelBufferMins := uc.pricingService.TravelBuffer(zoneResult.DriveTimeMins, bundle)

	// 6. Снимаем с сетки просроченные неоплаченные брони
	if expired, err := uc.bookingRepo.ExpirePending(ctx, now.Add(-uc.pendingTTL)); err != nil {
		uc.logger.Error("GetAvailability: expire pending failed: %v", err)
	} else if expired > 0 {
		uc.logger.Info("GetAvailability: cancelled %d stale bookings", expired)
	}

	// 7. Собираем занятые интервалы. Окно берется с запасом, чтобы буферы
	// соседних событий за границами окна тоже учитывались.
	windowStart := startDay.Add(time.Duration(domain.WorkdayStartHour)*time.Hour - 4*time.Hour)
	windowEnd := startDay.AddDate(0, 0, domain.BookingWindowDays+2)

	blocked, err := uc.intervalsService.BlockedIntervals(ctx, windowStart, windowEnd)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to collect blocked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to collect blocked intervals: %v", ErrInternal, err)
	}

	// 8. Строим сетку
	slots := generateSlots(now, startDay, requirements.DurationMins, travelBufferMins,
		requirements.MaxNoticeHours, blocked, uc.location)

	// 9. Цена считается по первому доступному слоту: надбавки зависят
	// от времени начала
	response := &Response{
		Zone:             string(zoneResult.Zone),
		DriveTimeMins:    zoneResult.DriveTimeMins,
		TravelBufferMins: travelBufferMins,
		DepositGBP:       uc.pricingService.Deposit(bundle, zoneResult.Zone),
		Days:             groupByDay(slots),
	}

	if first := firstAvailable(slots); first != nil {
		response.FixedPriceGBP = uc.pricingService.FixedPrice(bundle, zoneResult.Zone, *first)
	}

	uc.logger.Info("GetAvailability: postcode=%s zone=%s buffer=%dmin days=%d",
		req.Postcode, response.Zone, travelBufferMins, len(response.Days))

	return response, nil
}
