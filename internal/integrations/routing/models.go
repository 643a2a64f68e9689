package routing

// Route модель маршрута от базы техника до клиента
type Route struct {
	DriveTimeMinutes float64 `json:"drive_time_minutes"`
	DistanceKm       float64 `json:"distance_km"`
}

// ErrorResponse модель ошибки от сервиса маршрутизации
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
