package routing

import "errors"

var (
	// ErrRouteNotFound возвращается, когда маршрут между точками не найден
	// (например, посткод не распознан)
	ErrRouteNotFound = errors.New("routing client: route not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("routing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("routing client: invalid response")
)
