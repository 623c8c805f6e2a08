package models

// PaymentRequest is what a payment processor is asked to charge.
type PaymentRequest struct {
	UserID          string
	Amount          float64
	Currency        string
	PaymentMethodID string
	Idempotency     string
	Description     string
	Metadata        map[string]string
}
