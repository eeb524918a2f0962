package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createInvoice = `
INSERT INTO invoices (
    invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, notes, terms
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
)
RETURNING id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
`

type CreateInvoiceParams struct {
	InvoiceNumber    string
	ProjectID        uuid.UUID
	EstimationID     uuid.UUID
	ProposalID       pgtype.UUID
	ClientName       string
	ClientEmail      string
	ClientAddress    pgtype.Text
	Items            []byte
	SubtotalCents    int64
	TaxRate          float64
	TaxAmountCents   int64
	TotalAmountCents int64
	Status           string
	IssueDate        pgtype.Timestamptz
	DueDate          pgtype.Timestamptz
	Notes            pgtype.Text
	Terms            pgtype.Text
}

func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, createInvoice,
		arg.InvoiceNumber,
		arg.ProjectID,
		arg.EstimationID,
		arg.ProposalID,
		arg.ClientName,
		arg.ClientEmail,
		arg.ClientAddress,
		arg.Items,
		arg.SubtotalCents,
		arg.TaxRate,
		arg.TaxAmountCents,
		arg.TotalAmountCents,
		arg.Status,
		arg.IssueDate,
		arg.DueDate,
		arg.Notes,
		arg.Terms,
	)
	return scanInvoice(row)
}

const getInvoiceByID = `
SELECT id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
FROM invoices
WHERE id = $1
`

func (q *Queries) GetInvoiceByID(ctx context.Context, id uuid.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceByID, id))
}

const getInvoiceByPaymentIntent = `
SELECT id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
FROM invoices
WHERE stripe_payment_intent_id = $1
`

func (q *Queries) GetInvoiceByPaymentIntent(ctx context.Context, paymentIntentID pgtype.Text) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceByPaymentIntent, paymentIntentID))
}

const getInvoiceByCheckoutSession = `
SELECT id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
FROM invoices
WHERE stripe_checkout_session_id = $1
`

func (q *Queries) GetInvoiceByCheckoutSession(ctx context.Context, sessionID pgtype.Text) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceByCheckoutSession, sessionID))
}

// getLatestInvoiceNumber locks the current maximum for the year prefix so two
// concurrent creations in the same transaction window serialize. The unique
// constraint on invoice_number is the backstop for races across connections.
const getLatestInvoiceNumber = `
SELECT invoice_number
FROM invoices
WHERE invoice_number LIKE $1 || '%'
ORDER BY invoice_number DESC
LIMIT 1
FOR UPDATE
`

func (q *Queries) GetLatestInvoiceNumber(ctx context.Context, prefix string) (string, error) {
	var number string
	err := q.db.QueryRow(ctx, getLatestInvoiceNumber, prefix).Scan(&number)
	return number, err
}

const invoiceExistsForEstimation = `
SELECT EXISTS (
    SELECT 1 FROM invoices
    WHERE estimation_id = $1 AND status <> 'cancelled'
)
`

func (q *Queries) InvoiceExistsForEstimation(ctx context.Context, estimationID uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, invoiceExistsForEstimation, estimationID).Scan(&exists)
	return exists, err
}

const updateInvoiceStatus = `
UPDATE invoices
SET status = $2,
    paid_at = $3,
    updated_at = now()
WHERE id = $1
RETURNING id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
`

type UpdateInvoiceStatusParams struct {
	ID     uuid.UUID
	Status string
	PaidAt pgtype.Timestamptz
}

func (q *Queries) UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, updateInvoiceStatus, arg.ID, arg.Status, arg.PaidAt))
}

const updateInvoiceCheckoutSession = `
UPDATE invoices
SET stripe_checkout_session_id = $2,
    stripe_customer_id = $3,
    payment_url = $4,
    status = $5,
    updated_at = now()
WHERE id = $1
RETURNING id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
`

type UpdateInvoiceCheckoutSessionParams struct {
	ID                      uuid.UUID
	StripeCheckoutSessionID pgtype.Text
	StripeCustomerID        pgtype.Text
	PaymentUrl              pgtype.Text
	Status                  string
}

func (q *Queries) UpdateInvoiceCheckoutSession(ctx context.Context, arg UpdateInvoiceCheckoutSessionParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, updateInvoiceCheckoutSession,
		arg.ID,
		arg.StripeCheckoutSessionID,
		arg.StripeCustomerID,
		arg.PaymentUrl,
		arg.Status,
	)
	return scanInvoice(row)
}

const updateInvoiceStripeCustomer = `
UPDATE invoices
SET stripe_customer_id = $2,
    updated_at = now()
WHERE id = $1
`

type UpdateInvoiceStripeCustomerParams struct {
	ID               uuid.UUID
	StripeCustomerID pgtype.Text
}

func (q *Queries) UpdateInvoiceStripeCustomer(ctx context.Context, arg UpdateInvoiceStripeCustomerParams) error {
	_, err := q.db.Exec(ctx, updateInvoiceStripeCustomer, arg.ID, arg.StripeCustomerID)
	return err
}

// markInvoicePaid only fires when the invoice is not already paid, which makes
// the paid transition idempotent under duplicate webhook delivery.
const markInvoicePaid = `
UPDATE invoices
SET status = 'paid',
    paid_at = now(),
    stripe_payment_intent_id = $2,
    updated_at = now()
WHERE id = $1 AND status <> 'paid'
RETURNING id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
`

type MarkInvoicePaidParams struct {
	ID                    uuid.UUID
	StripePaymentIntentID pgtype.Text
}

func (q *Queries) MarkInvoicePaid(ctx context.Context, arg MarkInvoicePaidParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, markInvoicePaid, arg.ID, arg.StripePaymentIntentID))
}

const markOverdueInvoices = `
UPDATE invoices
SET status = 'overdue',
    updated_at = now()
WHERE status IN ('unpaid', 'sent')
  AND due_date < now()
`

func (q *Queries) MarkOverdueInvoices(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, markOverdueInvoices)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listInvoicesByProject = `
SELECT id, invoice_number, project_id, estimation_id, proposal_id,
    client_name, client_email, client_address, items,
    subtotal_cents, tax_rate, tax_amount_cents, total_amount_cents,
    status, issue_date, due_date, paid_at,
    stripe_checkout_session_id, stripe_payment_intent_id, stripe_customer_id, payment_url,
    notes, terms, created_at, updated_at
FROM invoices
WHERE project_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListInvoicesByProject(ctx context.Context, projectID uuid.UUID) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoicesByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}

const getInvoiceStats = `
SELECT
    COUNT(*) AS total_count,
    COUNT(*) FILTER (WHERE status = 'paid') AS paid_count,
    COUNT(*) FILTER (WHERE status IN ('unpaid', 'sent', 'partially_paid')) AS open_count,
    COUNT(*) FILTER (WHERE status = 'overdue') AS overdue_count,
    COALESCE(SUM(total_amount_cents), 0)::bigint AS total_billed_cents,
    COALESCE(SUM(total_amount_cents) FILTER (WHERE status = 'paid'), 0)::bigint AS total_paid_cents,
    COALESCE(SUM(total_amount_cents) FILTER (WHERE status IN ('unpaid', 'sent', 'overdue', 'partially_paid')), 0)::bigint AS total_outstanding_cents
FROM invoices
WHERE ($1::uuid IS NULL OR project_id = $1)
`

type GetInvoiceStatsRow struct {
	TotalCount            int64
	PaidCount             int64
	OpenCount             int64
	OverdueCount          int64
	TotalBilledCents      int64
	TotalPaidCents        int64
	TotalOutstandingCents int64
}

func (q *Queries) GetInvoiceStats(ctx context.Context, projectID pgtype.UUID) (GetInvoiceStatsRow, error) {
	var r GetInvoiceStatsRow
	err := q.db.QueryRow(ctx, getInvoiceStats, projectID).Scan(
		&r.TotalCount,
		&r.PaidCount,
		&r.OpenCount,
		&r.OverdueCount,
		&r.TotalBilledCents,
		&r.TotalPaidCents,
		&r.TotalOutstandingCents,
	)
	return r, err
}

// rowScanner lets scanInvoice serve both QueryRow and Query results.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (Invoice, error) {
	var i Invoice
	err := row.Scan(
		&i.ID,
		&i.InvoiceNumber,
		&i.ProjectID,
		&i.EstimationID,
		&i.ProposalID,
		&i.ClientName,
		&i.ClientEmail,
		&i.ClientAddress,
		&i.Items,
		&i.SubtotalCents,
		&i.TaxRate,
		&i.TaxAmountCents,
		&i.TotalAmountCents,
		&i.Status,
		&i.IssueDate,
		&i.DueDate,
		&i.PaidAt,
		&i.StripeCheckoutSessionID,
		&i.StripePaymentIntentID,
		&i.StripeCustomerID,
		&i.PaymentUrl,
		&i.Notes,
		&i.Terms,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
