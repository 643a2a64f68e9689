package stripepay

// Типы платежей в метаданных checkout-сессии
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeBalance = "balance"
)

// CheckoutParams параметры создания checkout-сессии
type CheckoutParams struct {
	BookingID     string
	PaymentToken  string
	PaymentType   string
	AmountPence   int64
	Currency      string
	Description   string
	CustomerEmail string
}

// CheckoutSession созданная checkout-сессия
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent разобранное событие провайдера
type WebhookEvent struct {
	ID              string
	Type            string
	SessionID       string
	BookingID       string
	PaymentType     string
	AmountTotal     int64
	PaymentIntentID string
	CustomerID      string
}

// IsCheckoutCompleted сообщает, является ли событие завершением оплаты
func (e *WebhookEvent) IsCheckoutCompleted() bool {
	return e.Type == "checkout.session.completed"
}
