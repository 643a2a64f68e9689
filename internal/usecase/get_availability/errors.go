package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUnknownService возвращается, когда ID услуги отсутствует в каталоге
	ErrUnknownService = errors.New("unknown service")

	// ErrRouteUnavailable возвращается, когда не удалось рассчитать
	// время в пути до клиента
	ErrRouteUnavailable = errors.New("route unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
