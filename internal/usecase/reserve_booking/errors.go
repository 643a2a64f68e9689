package reserve_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUnknownService возвращается, когда ID услуги отсутствует в каталоге
	ErrUnknownService = errors.New("unknown service")

	// ErrRouteUnavailable возвращается, когда не удалось рассчитать
	// время в пути до клиента
	ErrRouteUnavailable = errors.New("route unavailable")

	// ErrInvalidSlotStart возвращается, когда время начала не лежит
	// на сетке слотов
	ErrInvalidSlotStart = errors.New("slot start is not on the booking grid")

	// ErrInsufficientNotice возвращается, когда до слота меньше
	// минимального notice бандла
	ErrInsufficientNotice = errors.New("insufficient notice for requested slot")

	// ErrBeyondWindow возвращается, когда слот дальше горизонта бронирования
	ErrBeyondWindow = errors.New("slot is beyond the booking window")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("slot not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
