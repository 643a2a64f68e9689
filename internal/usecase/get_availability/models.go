package get_availability

import "time"

// Request модель запроса доступности
type Request struct {
	Postcode   string   // посткод клиента
	ServiceIDs []string // бандл услуг
	FromDate   string   // первый день сетки (YYYY-MM-DD), опционально
}

// Slot один слот сетки доступности
type Slot struct {
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

// Day слоты одного дня
type Day struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Slots []Slot `json:"slots"`
}

// Response модель ответа с сеткой доступности.
// Для незонируемых посткодов сетка пустая, ManualReview = true.
type Response struct {
	Zone             string `json:"zone"`
	DriveTimeMins    int    `json:"driveTimeMins"`
	TravelBufferMins int    `json:"travelBufferMins"`
	ManualReview     bool   `json:"manualReview"`
	FixedPriceGBP    *int64 `json:"fixedPriceGbp,omitempty"`
	DepositGBP       *int64 `json:"depositGbp,omitempty"`
	Days             []Day  `json:"days"`
}
