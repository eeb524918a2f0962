package business

// Payment statuses. Payment rows are append-only: a refund is a new row with
// a negative amount, never a mutation of the original payment.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
)

// PaymentMethodStripe is the only gateway-backed method currently in use.
const PaymentMethodStripe = "stripe"

// WebhookResult is returned by webhook-driven payment operations. Processed
// is false for events the system acknowledged but could not act on; webhook
// handlers report these as successes so the gateway stops redelivering.
type WebhookResult struct {
	Processed bool   `json:"processed"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Message   string `json:"message,omitempty"`
}
