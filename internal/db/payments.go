package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `
INSERT INTO payments (
    invoice_id, amount_cents, method, status,
    transaction_id, gateway, gateway_fee_cents, notes, paid_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
RETURNING id, invoice_id, amount_cents, method, status,
    transaction_id, gateway, gateway_fee_cents, notes, paid_at, created_at
`

type CreatePaymentParams struct {
	InvoiceID       uuid.UUID
	AmountCents     int64
	Method          string
	Status          string
	TransactionID   pgtype.Text
	Gateway         pgtype.Text
	GatewayFeeCents pgtype.Int8
	Notes           pgtype.Text
	PaidAt          pgtype.Timestamptz
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.InvoiceID,
		arg.AmountCents,
		arg.Method,
		arg.Status,
		arg.TransactionID,
		arg.Gateway,
		arg.GatewayFeeCents,
		arg.Notes,
		arg.PaidAt,
	)
	return scanPayment(row)
}

const getPayment = `
SELECT id, invoice_id, amount_cents, method, status,
    transaction_id, gateway, gateway_fee_cents, notes, paid_at, created_at
FROM payments
WHERE id = $1
`

func (q *Queries) GetPayment(ctx context.Context, id uuid.UUID) (Payment, error) {
	return scanPayment(q.db.QueryRow(ctx, getPayment, id))
}

const getPaymentsByInvoice = `
SELECT id, invoice_id, amount_cents, method, status,
    transaction_id, gateway, gateway_fee_cents, notes, paid_at, created_at
FROM payments
WHERE invoice_id = $1
ORDER BY created_at ASC
`

func (q *Queries) GetPaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error) {
	rows, err := q.db.Query(ctx, getPaymentsByInvoice, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// getInvoicePaidAmount derives the paid balance from completed rows only.
// Refund rows carry negative amounts and subtract naturally.
const getInvoicePaidAmount = `
SELECT COALESCE(SUM(amount_cents), 0)::bigint
FROM payments
WHERE invoice_id = $1 AND status = 'completed'
`

func (q *Queries) GetInvoicePaidAmount(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var paid int64
	err := q.db.QueryRow(ctx, getInvoicePaidAmount, invoiceID).Scan(&paid)
	return paid, err
}

const getCompletedPaymentByTransaction = `
SELECT id, invoice_id, amount_cents, method, status,
    transaction_id, gateway, gateway_fee_cents, notes, paid_at, created_at
FROM payments
WHERE invoice_id = $1 AND transaction_id = $2 AND status = 'completed'
`

type GetCompletedPaymentByTransactionParams struct {
	InvoiceID     uuid.UUID
	TransactionID pgtype.Text
}

func (q *Queries) GetCompletedPaymentByTransaction(ctx context.Context, arg GetCompletedPaymentByTransactionParams) (Payment, error) {
	return scanPayment(q.db.QueryRow(ctx, getCompletedPaymentByTransaction, arg.InvoiceID, arg.TransactionID))
}

func scanPayment(row rowScanner) (Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID,
		&p.InvoiceID,
		&p.AmountCents,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.Gateway,
		&p.GatewayFeeCents,
		&p.Notes,
		&p.PaidAt,
		&p.CreatedAt,
	)
	return p, err
}
