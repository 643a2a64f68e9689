package stripepay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Client клиент платежного провайдера (Stripe Checkout)
type Client struct {
	webhookSecret  string
	successURLBase string
	log            Logger
}

// NewClient создает новый экземпляр платежного клиента
func NewClient(secretKey, webhookSecret, successURLBase string, log Logger) *Client {
	stripe.Key = secretKey

	return &Client{
		webhookSecret:  webhookSecret,
		successURLBase: successURLBase,
		log:            log,
	}
}

// CreateCheckoutSession создает checkout-сессию для оплаты депозита или остатка.
// ID бронирования и тип платежа кладутся в метаданные сессии и возвращаются
// провайдером в webhook.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.AmountPence),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(params.CustomerEmail),
		SuccessURL:    stripe.String(fmt.Sprintf("%s/pay/%s?paid=1", c.successURLBase, params.PaymentToken)),
		CancelURL:     stripe.String(fmt.Sprintf("%s/pay/%s", c.successURLBase, params.PaymentToken)),
	}
	sessionParams.Context = ctx
	sessionParams.AddMetadata("booking_id", params.BookingID)
	sessionParams.AddMetadata("payment_token", params.PaymentToken)
	sessionParams.AddMetadata("payment_type", params.PaymentType)

	created, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create checkout session: %v", ErrInternal, err)
	}

	return &CheckoutSession{ID: created.ID, URL: created.URL}, nil
}

// VerifyWebhook проверяет подпись webhook и разбирает событие.
// Для событий, не связанных с checkout-сессией, заполняются только ID и Type.
func (c *Client) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	parsed := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if !parsed.IsCheckoutCompleted() {
		return parsed, nil
	}

	var checkoutSession stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
		return nil, fmt.Errorf("%w: failed to parse checkout session: %v", ErrInternal, err)
	}

	parsed.SessionID = checkoutSession.ID
	parsed.BookingID = checkoutSession.Metadata["booking_id"]
	parsed.PaymentType = checkoutSession.Metadata["payment_type"]
	parsed.AmountTotal = checkoutSession.AmountTotal
	if checkoutSession.PaymentIntent != nil {
		parsed.PaymentIntentID = checkoutSession.PaymentIntent.ID
	}
	if checkoutSession.Customer != nil {
		parsed.CustomerID = checkoutSession.Customer.ID
	}

	return parsed, nil
}
