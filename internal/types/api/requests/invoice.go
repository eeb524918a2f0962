package requests

// UpdateInvoiceStatusRequest changes an invoice's status. PaidAt handling is
// derived server-side; only the target status is accepted from callers.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RefundPaymentRequest requests a refund of a captured payment. A nil amount
// refunds the payment in full.
type RefundPaymentRequest struct {
	AmountCents *int64 `json:"amount_cents,omitempty" binding:"omitempty,gt=0"`
	Reason      string `json:"reason,omitempty"`
}
