package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// PaymentMethod is decided once, when the booking is created
type PaymentMethod string

const (
	PaymentFree   PaymentMethod = "free"
	PaymentStripe PaymentMethod = "stripe"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Language of customer-facing messages
type Language string

const (
	LanguageSV Language = "sv"
	LanguageEN Language = "en"
)

// ParseLanguage returns sv for anything unknown
func ParseLanguage(s string) Language {
	if Language(s) == LanguageEN {
		return LanguageEN
	}
	return LanguageSV
}

// Contact информация о клиенте
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Payment платёжная часть бронирования
type Payment struct {
	Method            PaymentMethod
	Amount            int // SEK, fixed at creation
	Status            PaymentStatus
	PaymentID         *string // payment intent id
	CheckoutSessionID *string
}

// Booking groups one or more slots with contact and payment data
type Booking struct {
	ID                string
	Date              time.Time // start of the first slot
	SlotIDs           []int64
	User              Contact
	IsYouth           bool
	FreeSlots         int // slots paid from the member quota
	PaidSlots         int
	Payment           Payment
	CancellationToken string
	Language          Language

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPending returns true while the booking waits for payment
func (b *Booking) IsPending() bool {
	return b.Payment.Status == PaymentPending
}

// IsClosed returns true for cancelled or refunded bookings
func (b *Booking) IsClosed() bool {
	return b.Payment.Status == PaymentCancelled || b.Payment.Status == PaymentRefunded
}

// UsesMemberQuota returns true if some slots were taken from the member allowance
func (b *Booking) UsesMemberQuota() bool {
	return b.FreeSlots > 0
}

// HasRefundablePayment returns true if a provider payment exists to refund
func (b *Booking) HasRefundablePayment() bool {
	return b.Payment.Method == PaymentStripe && b.Payment.PaymentID != nil && *b.Payment.PaymentID != ""
}

// QuotaYear is the calendar year the member quota was charged in
func (b *Booking) QuotaYear(loc *time.Location) int {
	return b.CreatedAt.In(loc).Year()
}

// TokenMatches compares the cancellation token in constant time
func (b *Booking) TokenMatches(token string) bool {
	if token == "" || b.CancellationToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(b.CancellationToken)) == 1
}

// NewCancellationToken returns 32 random bytes, hex encoded
func NewCancellationToken() (string, error) {
	buf := make([]byte, CancellationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate cancellation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// BookingWithSlots booking with its slots resolved, in booking order
type BookingWithSlots struct {
	Booking *Booking
	Slots   []*Slot
}

// FirstStart returns the earliest slot start, zero time if there are no slots
func (b *BookingWithSlots) FirstStart() time.Time {
	var first time.Time
	for _, s := range b.Slots {
		if first.IsZero() || s.Start.Before(first) {
			first = s.Start
		}
	}
	return first
}
