package gcalendar

import "time"

// Event модель события рабочего календаря техника
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Cancelled   bool
	Transparent bool
}

// EventInput данные для создания события в календаре
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	ColorID     string
}

// Цвета событий календаря по статусу бронирования
const (
	ColorPending         = "5"  // желтый: ждем депозит / депозит оплачен
	ColorCompletedUnpaid = "11" // красный: выезд выполнен, остаток не оплачен
	ColorCompletedPaid   = "10" // зеленый: полностью оплачено
)
