// Package payments defines the provider-neutral payment gateway contract the
// billing core depends on. The Stripe implementation lives in the stripe
// subpackage; swapping providers means implementing Gateway again.
package payments

import "context"

// Gateway wraps a payment processor's customer, checkout, payment-intent and
// refund primitives behind a stable interface. All amounts are integer minor
// units (cents); this package performs no unit conversion.
type Gateway interface {
	// EnsureCustomer looks up a gateway customer by email and creates one if
	// none exists. Idempotent.
	EnsureCustomer(ctx context.Context, email, name string) (string, error)

	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)

	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (PaymentIntent, error)

	CreateRefund(ctx context.Context, params RefundParams) (Refund, error)

	// VerifyAndParseWebhook checks the event signature and maps the payload to
	// a neutral WebhookEvent. On signature failure the returned event has
	// SignatureValid=false alongside a non-nil error; consumers must fail
	// closed.
	VerifyAndParseWebhook(payload []byte, signatureHeader string) (WebhookEvent, error)

	// Name identifies the provider (e.g. "stripe") for Payment records.
	Name() string
}

// CheckoutSessionParams describes the single-line-item hosted checkout page
// for one invoice. Metadata correlation (invoice id and number) is the
// adapter's responsibility.
type CheckoutSessionParams struct {
	InvoiceID     string
	InvoiceNumber string
	CustomerID    string
	CustomerEmail string
	CustomerName  string
	AmountCents   int64
	Currency      string
	Description   string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the neutral view of a hosted checkout session.
type CheckoutSession struct {
	ID              string
	URL             string
	Status          string
	PaymentIntentID string
	CustomerID      string
	AmountCents     int64
}

// Checkout session statuses in neutral form.
const (
	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"
)

// Open reports whether the session can still be completed by the client.
func (s CheckoutSession) Open() bool {
	return s.Status == SessionStatusOpen
}

// PaymentIntentParams describes a direct (embedded) payment flow.
type PaymentIntentParams struct {
	InvoiceID     string
	InvoiceNumber string
	CustomerEmail string
	AmountCents   int64
	Currency      string
	Description   string
}

// PaymentIntent is the neutral view of a gateway payment intent.
type PaymentIntent struct {
	ID              string
	ClientSecret    string
	Status          string
	AmountCents     int64
	GatewayFeeCents int64
	CustomerID      string
	InvoiceID       string
}

// Succeeded reports whether the intent captured its amount.
func (p PaymentIntent) Succeeded() bool {
	return p.Status == "succeeded"
}

// RefundParams identifies the gateway transaction to refund. A zero
// AmountCents refunds the full charge.
type RefundParams struct {
	TransactionID string
	AmountCents   int64
	Reason        string
}

// Refund is the neutral view of a gateway refund.
type Refund struct {
	ID          string
	AmountCents int64
	Status      string
}

// EventKind is the closed set of webhook event kinds the billing core acts
// on. Anything else maps to EventUnknown and is logged and acknowledged.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventPaymentSucceeded
	EventPaymentFailed
	EventCheckoutCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventPaymentSucceeded:
		return "payment_succeeded"
	case EventPaymentFailed:
		return "payment_failed"
	case EventCheckoutCompleted:
		return "checkout_completed"
	default:
		return "unknown"
	}
}

// WebhookEvent is a verified, provider-neutral webhook event.
type WebhookEvent struct {
	Kind              EventKind
	Provider          string
	ProviderEventID   string
	ProviderEventType string
	PaymentIntentID   string
	CheckoutSessionID string
	InvoiceID         string
	SignatureValid    bool
	RawData           []byte
}
