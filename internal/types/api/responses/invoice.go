package responses

import (
	"time"

	"github.com/google/uuid"

	"github.com/craftside/portal-api/internal/types/business"
)

// InvoiceResponse represents an invoice in API responses. Amounts are integer
// cents.
type InvoiceResponse struct {
	ID                      uuid.UUID                  `json:"id"`
	InvoiceNumber           string                     `json:"invoice_number"`
	ProjectID               uuid.UUID                  `json:"project_id"`
	EstimationID            uuid.UUID                  `json:"estimation_id"`
	ProposalID              *uuid.UUID                 `json:"proposal_id,omitempty"`
	ClientName              string                     `json:"client_name"`
	ClientEmail             string                     `json:"client_email"`
	ClientAddress           *string                    `json:"client_address,omitempty"`
	Items                   []business.InvoiceLineItem `json:"items"`
	SubtotalCents           int64                      `json:"subtotal_cents"`
	TaxRate                 float64                    `json:"tax_rate"`
	TaxAmountCents          int64                      `json:"tax_amount_cents"`
	TotalAmountCents        int64                      `json:"total_amount_cents"`
	Status                  string                     `json:"status"`
	IssueDate               time.Time                  `json:"issue_date"`
	DueDate                 time.Time                  `json:"due_date"`
	PaidAt                  *time.Time                 `json:"paid_at,omitempty"`
	StripeCheckoutSessionID *string                    `json:"stripe_checkout_session_id,omitempty"`
	StripePaymentIntentID   *string                    `json:"stripe_payment_intent_id,omitempty"`
	StripeCustomerID        *string                    `json:"stripe_customer_id,omitempty"`
	PaymentURL              *string                    `json:"payment_url,omitempty"`
	Notes                   *string                    `json:"notes,omitempty"`
	Terms                   *string                    `json:"terms,omitempty"`
	CreatedAt               time.Time                  `json:"created_at"`
	UpdatedAt               time.Time                  `json:"updated_at"`
}

// InvoiceStatsResponse aggregates invoice counts and cent totals, optionally
// scoped to one project.
type InvoiceStatsResponse struct {
	TotalCount            int64 `json:"total_count"`
	PaidCount             int64 `json:"paid_count"`
	OpenCount             int64 `json:"open_count"`
	OverdueCount          int64 `json:"overdue_count"`
	TotalBilledCents      int64 `json:"total_billed_cents"`
	TotalPaidCents        int64 `json:"total_paid_cents"`
	TotalOutstandingCents int64 `json:"total_outstanding_cents"`
}
