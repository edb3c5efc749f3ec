package payments

import (
	"time"

	"github.com/stripe/stripe-go/v79"
)

// MetadataBookingID ключ метаданных сессии с id бронирования
const MetadataBookingID = "bookingId"

// Минимальный срок жизни checkout-сессии, который принимает Stripe
const MinSessionTTL = 30 * time.Minute

// Config настройки клиента
type Config struct {
	SecretKey string
	Currency  string
	ClientURL string

	// Backend подменяет HTTP backend Stripe, nil - боевой API
	Backend stripe.Backend
}

// CheckoutRequest оплачиваемая часть бронирования
type CheckoutRequest struct {
	BookingID     string
	CustomerEmail string
	Quantity      int // оплачиваемые часы
	UnitAmount    int // SEK за час
	ExpiresAt     time.Time
}

// CheckoutSession встроенная сессия оплаты
type CheckoutSession struct {
	ID           string
	ClientSecret string
}

// SessionStatus состояние сессии после возврата клиента со Stripe
type SessionStatus struct {
	Status        string
	CustomerEmail string
	PaymentID     string
	BookingID     string
}

// Refund результат возврата
type Refund struct {
	ID     string
	Status string
}
