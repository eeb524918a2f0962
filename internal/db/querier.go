package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the query surface services depend on. Keeping it an interface
// allows gomock-generated fakes in service tests.
type Querier interface {
	// Estimations
	GetEstimation(ctx context.Context, id uuid.UUID) (Estimation, error)
	GetEstimationClient(ctx context.Context, estimationID uuid.UUID) (GetEstimationClientRow, error)
	UpdateEstimationStatus(ctx context.Context, arg UpdateEstimationStatusParams) (Estimation, error)

	// Invoices
	CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (Invoice, error)
	GetInvoiceByPaymentIntent(ctx context.Context, paymentIntentID pgtype.Text) (Invoice, error)
	GetInvoiceByCheckoutSession(ctx context.Context, sessionID pgtype.Text) (Invoice, error)
	GetLatestInvoiceNumber(ctx context.Context, prefix string) (string, error)
	InvoiceExistsForEstimation(ctx context.Context, estimationID uuid.UUID) (bool, error)
	UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error)
	UpdateInvoiceCheckoutSession(ctx context.Context, arg UpdateInvoiceCheckoutSessionParams) (Invoice, error)
	UpdateInvoiceStripeCustomer(ctx context.Context, arg UpdateInvoiceStripeCustomerParams) error
	MarkInvoicePaid(ctx context.Context, arg MarkInvoicePaidParams) (Invoice, error)
	MarkOverdueInvoices(ctx context.Context) (int64, error)
	ListInvoicesByProject(ctx context.Context, projectID uuid.UUID) ([]Invoice, error)
	GetInvoiceStats(ctx context.Context, projectID pgtype.UUID) (GetInvoiceStatsRow, error)

	// Payments
	CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (Payment, error)
	GetPaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	GetInvoicePaidAmount(ctx context.Context, invoiceID uuid.UUID) (int64, error)
	GetCompletedPaymentByTransaction(ctx context.Context, arg GetCompletedPaymentByTransactionParams) (Payment, error)
}

var _ Querier = (*Queries)(nil)
