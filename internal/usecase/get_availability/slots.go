package get_availability

import (
	"fmt"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

// resolveStartDay определяет первый день сетки: запрошенная дата,
// но не раньше сегодняшнего дня
func resolveStartDay(now time.Time, fromDate string, loc *time.Location) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if fromDate == "" {
		return today, nil
	}

	from, err := time.ParseInLocation(domain.DateFormat, fromDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid fromDate %q", ErrInvalidInput, fromDate)
	}

	if from.Before(today) {
		return today, nil
	}
	return from, nil
}

// generateSlots строит сетку слотов на окно бронирования.
// Сетка всегда полная: каждый слот рабочего дня присутствует в ответе
// с флагом доступности, чтобы клиент видел занятые времена.
//
// Слот недоступен, если:
//   - его начало в прошлом;
//   - до начала меньше минимального notice бандла;
//   - начало дальше горизонта бронирования от текущего момента;
//   - визит с буфером на дорогу пересекается с занятым интервалом.
func generateSlots(
	now time.Time,
	startDay time.Time,
	durationMins int,
	travelBufferMins int,
	minNoticeHours int,
	blocked []domain.BlockedInterval,
	loc *time.Location,
) []domain.Slot {
	minStart := now.Add(time.Duration(minNoticeHours) * time.Hour)
	maxStart := now.AddDate(0, 0, domain.BookingWindowDays)

	duration := time.Duration(durationMins) * time.Minute
	buffer := time.Duration(travelBufferMins) * time.Minute

	slots := make([]domain.Slot, 0)

	for dayOffset := 0; dayOffset <= domain.BookingWindowDays; dayOffset++ {
		day := startDay.AddDate(0, 0, dayOffset)

		for hour := domain.WorkdayStartHour; hour < domain.WorkdayEndHour; hour++ {
			for _, minute := range []int{0, domain.SlotStepMinutes} {
				start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)

				slots = append(slots, domain.Slot{
					Start:     start,
					Available: isSlotBookable(start, now, minStart, maxStart, duration, buffer, blocked),
				})
			}
		}
	}

	return slots
}

func isSlotBookable(
	start time.Time,
	now, minStart, maxStart time.Time,
	duration, buffer time.Duration,
	blocked []domain.BlockedInterval,
) bool {
	if start.Before(now) || start.Before(minStart) || start.After(maxStart) {
		return false
	}

	// Визит блокирует время с запасом на дорогу в обе стороны.
	bufferedStart := start.Add(-buffer)
	bufferedEnd := start.Add(duration).Add(buffer)

	for _, interval := range blocked {
		if interval.Overlaps(bufferedStart, bufferedEnd) {
			return false
		}
	}

	return true
}

// groupByDay группирует слоты по календарным дням
func groupByDay(slots []domain.Slot) []Day {
	days := make([]Day, 0, domain.BookingWindowDays+1)

	for _, slot := range slots {
		date := slot.Start.Format(domain.DateFormat)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, Day{Date: date, Slots: make([]Slot, 0, 32)})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, Slot{Start: slot.Start, Available: slot.Available})
	}

	return days
}

// firstAvailable возвращает время первого доступного слота
func firstAvailable(slots []domain.Slot) *time.Time {
	for _, slot := range slots {
		if slot.Available {
			start := slot.Start
			return &start
		}
	}
	return nil
}
