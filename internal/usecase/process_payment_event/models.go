package process_payment_event

// Request сырое тело webhook и заголовок подписи
type Request struct {
	Payload   []byte
	Signature string
}

// Result итог обработки события.
// Handled=false означает, что событие подтверждено провайдеру,
// но состояние бронирований не менялось (дубликат, чужой тип события,
// неизвестная сессия).
type Result struct {
	Handled   bool
	BookingID string
	EventType string
}
