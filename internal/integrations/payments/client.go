package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Client клиент Stripe для встроенного checkout и возвратов
type Client struct {
	api       *client.API
	currency  string
	clientURL string
	log       Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config, log Logger) *Client {
	var backends *stripe.Backends
	if cfg.Backend != nil {
		backends = &stripe.Backends{API: cfg.Backend, Connect: cfg.Backend, Uploads: cfg.Backend}
	}

	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencySEK)
	}

	return &Client{
		api:       client.New(cfg.SecretKey, backends),
		currency:  currency,
		clientURL: cfg.ClientURL,
		log:       log,
	}
}

// CreateCheckoutSession создает embedded checkout сессию на оплачиваемые часы бронирования
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.BookingID == "" || req.Quantity <= 0 || req.UnitAmount <= 0 {
		return nil, fmt.Errorf("%w: booking=%q quantity=%d unit=%d", ErrInvalidRequest, req.BookingID, req.Quantity, req.UnitAmount)
	}

	params := &stripe.CheckoutSessionParams{
		UIMode:    stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		ReturnURL: stripe.String(c.clientURL + "/return?session_id={CHECKOUT_SESSION_ID}"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Tennis Court Booking (%d hours)", req.Quantity)),
					},
					// Stripe принимает сумму в эре
					UnitAmount: stripe.Int64(int64(req.UnitAmount) * 100),
				},
				Quantity: stripe.Int64(int64(req.Quantity)),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataBookingID, req.BookingID)

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if !req.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(req.ExpiresAt.Unix())
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.log.Error("Stripe: failed to create checkout session for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrProvider, err)
	}

	c.log.Info("Stripe: checkout session %s created for booking=%s", session.ID, req.BookingID)
	return &CheckoutSession{ID: session.ID, ClientSecret: session.ClientSecret}, nil
}

// GetSessionStatus получает статус сессии вместе с payment intent
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrInvalidRequest)
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	session, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		c.log.Error("Stripe: failed to retrieve session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: retrieve session: %v", ErrProvider, err)
	}

	status := &SessionStatus{
		Status:    string(session.Status),
		BookingID: session.Metadata[MetadataBookingID],
	}
	if session.CustomerDetails != nil {
		status.CustomerEmail = session.CustomerDetails.Email
	}
	if session.PaymentIntent != nil {
		status.PaymentID = session.PaymentIntent.ID
	}

	return status, nil
}

// Refund возвращает полную сумму платежа
func (c *Client) Refund(ctx context.Context, paymentID string) (*Refund, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: empty payment id", ErrInvalidRequest)
	}

	params := &stripe.RefundParams{PaymentIntent: stripe.String(paymentID)}
	params.Context = ctx

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		c.log.Error("Stripe: refund failed for payment=%s: %v", paymentID, err)
		return nil, fmt.Errorf("%w: refund: %v", ErrProvider, err)
	}

	c.log.Info("Stripe: refund %s (%s) created for payment=%s", refund.ID, refund.Status, paymentID)
	return &Refund{ID: refund.ID, Status: string(refund.Status)}, nil
}

// SessionExpiry срок действия сессии: не раньше минимума Stripe
func SessionExpiry(createdAt time.Time, ttl time.Duration, now time.Time) time.Time {
	expiresAt := createdAt.Add(ttl)
	if floor := now.Add(MinSessionTTL); expiresAt.Before(floor) {
		return floor
	}
	return expiresAt
}
