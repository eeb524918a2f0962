package responses

import (
	"time"

	"github.com/google/uuid"
)

// PaymentResponse represents a row of an invoice's payment ledger. Refunds
// appear as negative amounts.
type PaymentResponse struct {
	ID              uuid.UUID  `json:"id"`
	InvoiceID       uuid.UUID  `json:"invoice_id"`
	AmountCents     int64      `json:"amount_cents"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	TransactionID   *string    `json:"transaction_id,omitempty"`
	Gateway         *string    `json:"gateway,omitempty"`
	GatewayFeeCents *int64     `json:"gateway_fee_cents,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PaymentStatusResponse is the derived payment state of an invoice. Paid and
// remaining amounts are computed from the payment ledger, never stored.
type PaymentStatusResponse struct {
	Status               string            `json:"status"`
	PaidAmountCents      int64             `json:"paid_amount_cents"`
	TotalAmountCents     int64             `json:"total_amount_cents"`
	RemainingAmountCents int64             `json:"remaining_amount_cents"`
	Payments             []PaymentResponse `json:"payments"`
}

// PaymentProcessResult is the structured outcome of initiating a payment.
type PaymentProcessResult struct {
	Success bool             `json:"success"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// RefundResult is the structured outcome of a refund request.
type RefundResult struct {
	Success bool             `json:"success"`
	Payment *PaymentResponse `json:"payment,omitempty"`
	Error   string           `json:"error,omitempty"`
}
