package checkout_session

// Типы платежа в запросе
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeBalance = "balance"
)

// CreateCheckoutRequest HTTP request model
type CreateCheckoutRequest struct {
	PaymentType string `json:"paymentType"` // "deposit" | "balance"
}
