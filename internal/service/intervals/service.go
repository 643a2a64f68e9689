package intervals

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/gcalendar"
)

// bufferTagRe выделяет буфер события из его описания.
// Тег пишется сервисом при создании события, чтобы восстановить буфер
// при построении сетки доступности.
var bufferTagRe = regexp.MustCompile(`TP_BUFFER_MINUTES:(\d+)`)

// BufferTag формирует тег буфера для описания события календаря
func BufferTag(bufferMins int) string {
	return fmt.Sprintf("TP_BUFFER_MINUTES:%d", bufferMins)
}

// Service собирает занятые интервалы техника из рабочего календаря
// и активных бронирований в базе.
type Service struct {
	calendarClient      CalendarClient
	bookingRepo         BookingRepository
	earlyLateMarkers    []string
	earlyLateBufferMins int
	logger              Logger
}

// NewService создает новый экземпляр сервиса занятых интервалов
func NewService(
	calendarClient CalendarClient,
	bookingRepo BookingRepository,
	earlyLateMarkers []string,
	earlyLateBufferMins int,
	logger Logger,
) *Service {
	markers := make([]string, len(earlyLateMarkers))
	for i, m := range earlyLateMarkers {
		markers[i] = strings.ToLower(m)
	}

	return &Service{
		calendarClient:      calendarClient,
		bookingRepo:         bookingRepo,
		earlyLateMarkers:    markers,
		earlyLateBufferMins: earlyLateBufferMins,
		logger:              logger,
	}
}

// BlockedIntervals возвращает занятые интервалы в окне [from, to),
// уже расширенные буферами источников:
//   - событие с меткой раннего/позднего выезда получает буфер раннего выезда
//   - событие с тегом буфера в описании получает буфер из тега
//   - прочие события идут без буфера
//   - активные бронирования получают их собственный буфер на дорогу
//
// Отмененные и прозрачные (free) события не блокируют время.
func (s *Service) BlockedIntervals(ctx context.Context, from, to time.Time) ([]domain.BlockedInterval, error) {
	events, err := s.calendarClient.ListEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	blocked := make([]domain.BlockedInterval, 0, len(events))
	for _, event := range events {
		if event.Cancelled || event.Transparent {
			continue
		}

		buffer := time.Duration(s.eventBufferMins(event)) * time.Minute
		blocked = append(blocked, domain.BlockedInterval{
			Start: event.Start.Add(-buffer),
			End:   event.End.Add(buffer),
		})
	}

	bookings, err := s.bookingRepo.GetActiveInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}

	for _, b := range bookings {
		buffer := time.Duration(b.TravelBufferMins) * time.Minute
		blocked = append(blocked, domain.BlockedInterval{
			Start: b.SlotStart.Add(-buffer),
			End:   b.SlotEnd.Add(buffer),
		})
	}

	s.logger.Info("BlockedIntervals: window %s..%s events=%d bookings=%d",
		from.Format(time.RFC3339), to.Format(time.RFC3339), len(events), len(bookings))

	return blocked, nil
}

// eventBufferMins определяет буфер события календаря
func (s *Service) eventBufferMins(event gcalendar.Event) int {
	if s.isEarlyLateShift(event) {
		return s.earlyLateBufferMins
	}

	if match := bufferTagRe.FindStringSubmatch(event.Description); match != nil {
		if mins, err := strconv.Atoi(match[1]); err == nil {
			return mins
		}
	}

	return 0
}

// isEarlyLateShift проверяет метку раннего/позднего выезда в названии
// или описании события (без учета регистра)
func (s *Service) isEarlyLateShift(event gcalendar.Event) bool {
	haystack := strings.ToLower(event.Summary + " " + event.Description)
	for _, marker := range s.earlyLateMarkers {
		if strings.Contains(haystack, marker) {
			return true
		}
	}
	return false
}
