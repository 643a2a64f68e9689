package zoning

import "errors"

var (
	// ErrRouteUnavailable возвращается, когда ни для одной базы не удалось
	// рассчитать маршрут до клиента
	ErrRouteUnavailable = errors.New("zoning: route unavailable")

	// ErrInvalidPostcode возвращается при некорректном посткоде
	ErrInvalidPostcode = errors.New("zoning: invalid postcode")
)
