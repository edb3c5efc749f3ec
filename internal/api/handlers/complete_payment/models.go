package complete_payment

// CompletePaymentRequest HTTP request model
type CompletePaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required,max=255"`
	Language  string `json:"language" validate:"omitempty,oneof=sv en"`
}
