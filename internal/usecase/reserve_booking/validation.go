package reserve_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripointhq/TPD-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerEmail) == "" || !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("%w: valid customer email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Postcode) == "" {
		return fmt.Errorf("%w: postcode is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.VehicleReg) == "" {
		return fmt.Errorf("%w: vehicle registration is required", ErrInvalidInput)
	}
	if !req.SafeLocation {
		return fmt.Errorf("%w: a safe location for the vehicle must be confirmed", ErrInvalidInput)
	}
	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if req.SlotStart.IsZero() {
		return fmt.Errorf("%w: slot start is required", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty service id", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate service id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateSlotStart проверяет, что слот лежит на сетке бронирования
// и укладывается в notice и горизонт
func validateSlotStart(slotStart, now time.Time, minNoticeHours int) error {
	if slotStart.Minute()%domain.SlotStepMinutes != 0 || slotStart.Second() != 0 || slotStart.Nanosecond() != 0 {
		return ErrInvalidSlotStart
	}

	hour := slotStart.Hour()
	if hour < domain.WorkdayStartHour || hour >= domain.WorkdayEndHour {
		return ErrInvalidSlotStart
	}

	if slotStart.Before(now) {
		return ErrInvalidSlotStart
	}

	if slotStart.Before(now.Add(time.Duration(minNoticeHours) * time.Hour)) {
		return ErrInsufficientNotice
	}

	if slotStart.After(now.AddDate(0, 0, domain.BookingWindowDays)) {
		return ErrBeyondWindow
	}

	return nil
}
