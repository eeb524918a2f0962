package services

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. User-facing operations return these instead of raw
// database or gateway errors so HTTP handlers can map them to status codes
// and the messages stay actionable.

// NotFoundError indicates an estimation, invoice or payment id did not
// resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidStateError indicates an operation was attempted from a disallowed
// status, e.g. invoicing a non-approved estimation or refunding a pending
// payment.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// DuplicateSessionError indicates a non-expired gateway checkout session is
// already open for the invoice. Surfaced to clients as "try again shortly"
// rather than creating a duplicate session.
type DuplicateSessionError struct {
	InvoiceID string
}

func (e *DuplicateSessionError) Error() string {
	return fmt.Sprintf("a payment session is already active for invoice %s, try again shortly", e.InvoiceID)
}

// GatewayError wraps a payment gateway failure. The underlying message is
// preserved for logs via Unwrap; Error keeps credentials and raw payloads out
// of API responses.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error during %s", e.Op)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// WebhookVerificationError indicates a webhook signature mismatch. Always
// fails closed: the delivery is rejected so the gateway retries.
type WebhookVerificationError struct {
	Err error
}

func (e *WebhookVerificationError) Error() string {
	return "webhook signature verification failed"
}

func (e *WebhookVerificationError) Unwrap() error {
	return e.Err
}

// MalformedEventError indicates a webhook payload is missing required
// correlation metadata (e.g. no invoice id, or a session without a payment
// intent).
type MalformedEventError struct {
	Message string
}

func (e *MalformedEventError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}
