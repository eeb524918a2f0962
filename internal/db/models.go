package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// User is a portal client. Only the fields the billing core snapshots onto
// invoices are modeled here; the full client record lives with the portal.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Address   pgtype.Text
	CreatedAt pgtype.Timestamptz
}

// Project ties estimations and invoices to an owning client.
type Project struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt pgtype.Timestamptz
}

// Estimation is an upstream cost estimation. Amounts are integer cents;
// CostBreakdown is a JSONB business.CostBreakdown blob.
type Estimation struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	Title           string
	TotalHours      float64
	HourlyRateCents int64
	TotalCostCents  int64
	TaxRate         pgtype.Float8
	CostBreakdown   []byte
	Status          string
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

// Invoice is the persisted invoice record. Items is a JSONB list of
// business.InvoiceLineItem; all amounts are integer cents.
type Invoice struct {
	ID                      uuid.UUID
	InvoiceNumber           string
	ProjectID               uuid.UUID
	EstimationID            uuid.UUID
	ProposalID              pgtype.UUID
	ClientName              string
	ClientEmail             string
	ClientAddress           pgtype.Text
	Items                   []byte
	SubtotalCents           int64
	TaxRate                 float64
	TaxAmountCents          int64
	TotalAmountCents        int64
	Status                  string
	IssueDate               pgtype.Timestamptz
	DueDate                 pgtype.Timestamptz
	PaidAt                  pgtype.Timestamptz
	StripeCheckoutSessionID pgtype.Text
	StripePaymentIntentID   pgtype.Text
	StripeCustomerID        pgtype.Text
	PaymentUrl              pgtype.Text
	Notes                   pgtype.Text
	Terms                   pgtype.Text
	CreatedAt               pgtype.Timestamptz
	UpdatedAt               pgtype.Timestamptz
}

// Payment is one row in the append-only payment ledger of an invoice.
// AmountCents is signed: captured payments are positive, refunds negative.
type Payment struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	AmountCents     int64
	Method          string
	Status          string
	TransactionID   pgtype.Text
	Gateway         pgtype.Text
	GatewayFeeCents pgtype.Int8
	Notes           pgtype.Text
	PaidAt          pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
}
