package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/types/api/responses"
	"github.com/craftside/portal-api/internal/types/business"
)

// invoiceNumberPrefix is the fixed part of every invoice number; the year and
// a 4-digit sequence follow (e.g. INV-2026-0001). The sequence resets each
// calendar year. Past 9999 the padding widens rather than wrapping, so
// numbers stay unique; lexicographic ordering is only guaranteed within the
// 4-digit range.
const invoiceNumberPrefix = "INV"

// maxNumberingRetries bounds the retry loop when concurrent creations race on
// the invoice_number unique constraint.
const maxNumberingRetries = 5

// InvoiceService builds invoices from approved estimations and owns invoice
// persistence and status transitions.
type InvoiceService struct {
	queries db.Querier
	tx      db.TxManager
	logger  *zap.Logger
	email   EmailSender
}

// NewInvoiceService creates a new invoice service. email may be a
// NoopEmailSender when notifications are not configured.
func NewInvoiceService(queries db.Querier, tx db.TxManager, logger *zap.Logger, email EmailSender) *InvoiceService {
	return &InvoiceService{
		queries: queries,
		tx:      tx,
		logger:  logger,
		email:   email,
	}
}

// CreateInvoiceFromEstimation converts an approved estimation into a
// persisted invoice. Line items, client snapshot and totals are built up
// front; number assignment and persistence run in one transaction, retried
// with backoff when concurrent creations collide on the number constraint.
func (s *InvoiceService) CreateInvoiceFromEstimation(ctx context.Context, estimationID uuid.UUID) (*responses.InvoiceResponse, error) {
	estimation, err := s.queries.GetEstimation(ctx, estimationID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "estimation", ID: estimationID.String()}
		}
		return nil, fmt.Errorf("failed to get estimation: %w", err)
	}

	if estimation.Status != business.EstimationStatusApproved {
		return nil, &InvalidStateError{Message: "estimation must be approved before invoicing"}
	}

	exists, err := s.queries.InvoiceExistsForEstimation(ctx, estimationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invoice: %w", err)
	}
	if exists {
		return nil, &InvalidStateError{Message: "estimation has already been invoiced"}
	}

	client, err := s.queries.GetEstimationClient(ctx, estimationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve estimation client: %w", err)
	}

	items, subtotalCents, err := s.buildLineItems(estimation)
	if err != nil {
		return nil, err
	}

	taxRate := business.DefaultTaxRate
	if estimation.TaxRate.Valid {
		taxRate = estimation.TaxRate.Float64
	}
	taxAmountCents := business.TaxAmountCents(subtotalCents, taxRate)
	totalAmountCents := subtotalCents + taxAmountCents

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal line items: %w", err)
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, business.DefaultPaymentTermDays)

	var invoice db.Invoice
	operation := func() error {
		txErr := s.tx.WithTx(ctx, func(q db.Querier) error {
			invoiceNumber, numErr := s.nextInvoiceNumber(ctx, q, now)
			if numErr != nil {
				return numErr
			}

			var createErr error
			invoice, createErr = q.CreateInvoice(ctx, db.CreateInvoiceParams{
				InvoiceNumber:    invoiceNumber,
				ProjectID:        estimation.ProjectID,
				EstimationID:     estimation.ID,
				ClientName:       client.Name,
				ClientEmail:      client.Email,
				ClientAddress:    client.Address,
				Items:            itemsJSON,
				SubtotalCents:    subtotalCents,
				TaxRate:          taxRate,
				TaxAmountCents:   taxAmountCents,
				TotalAmountCents: totalAmountCents,
				Status:           business.InvoiceStatusUnpaid,
				IssueDate:        pgtype.Timestamptz{Time: now, Valid: true},
				DueDate:          pgtype.Timestamptz{Time: dueDate, Valid: true},
			})
			return createErr
		})
		if txErr == nil {
			return nil
		}
		if db.IsUniqueViolation(txErr) {
			// Another creation claimed the same number or the same
			// estimation; re-reading inside the next attempt resolves which.
			return txErr
		}
		return backoff.Permanent(txErr)
	}

	retryPolicy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxNumberingRetries)
	if err := backoff.Retry(operation, backoff.WithContext(retryPolicy, ctx)); err != nil {
		if db.IsUniqueViolation(err) {
			// Retries exhausted on the estimation uniqueness index means a
			// concurrent call already invoiced this estimation.
			return nil, &InvalidStateError{Message: "estimation has already been invoiced"}
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("Invoice created from estimation",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("estimation_id", estimation.ID.String()),
		zap.Int64("total_amount_cents", invoice.TotalAmountCents))

	// Notification failures must not roll back an already-persisted invoice.
	if err := s.email.SendInvoiceIssued(ctx, InvoiceEmailParams{
		To:            invoice.ClientEmail,
		ClientName:    invoice.ClientName,
		InvoiceNumber: invoice.InvoiceNumber,
		AmountCents:   invoice.TotalAmountCents,
		DueDate:       dueDate,
	}); err != nil {
		s.logger.Warn("Failed to send invoice issued email",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err))
	}

	return convertToInvoiceResponse(invoice)
}

// buildLineItems normalizes the estimation into invoice line items. The
// estimation's total cost is authoritative for the development-services line;
// validated additional items from the cost breakdown add on top.
func (s *InvoiceService) buildLineItems(estimation db.Estimation) ([]business.InvoiceLineItem, int64, error) {
	hoursTotal := business.RoundCents(estimation.TotalHours * float64(estimation.HourlyRateCents))
	if hoursTotal != estimation.TotalCostCents {
		s.logger.Warn("Estimation total cost diverges from hours x rate, using total cost",
			zap.String("estimation_id", estimation.ID.String()),
			zap.Int64("hours_x_rate_cents", hoursTotal),
			zap.Int64("total_cost_cents", estimation.TotalCostCents))
	}

	items := []business.InvoiceLineItem{
		{
			Description:    fmt.Sprintf("%s - Development Services", estimation.Title),
			Quantity:       estimation.TotalHours,
			UnitPriceCents: estimation.HourlyRateCents,
			TotalCents:     hoursTotal,
		},
	}
	subtotalCents := estimation.TotalCostCents

	if len(estimation.CostBreakdown) > 0 {
		var breakdown business.CostBreakdown
		if err := json.Unmarshal(estimation.CostBreakdown, &breakdown); err != nil {
			return nil, 0, fmt.Errorf("failed to parse cost breakdown: %w", err)
		}
		for i, extra := range breakdown.AdditionalItems {
			item, err := extra.ToLineItem()
			if err != nil {
				return nil, 0, fmt.Errorf("cost breakdown item %d: %w", i, err)
			}
			items = append(items, item)
			subtotalCents += item.TotalCents
		}
	}

	if err := business.ValidateLineItems(items); err != nil {
		return nil, 0, fmt.Errorf("invalid invoice line items: %w", err)
	}

	return items, subtotalCents, nil
}

// nextInvoiceNumber computes the next sequential number for the current
// calendar year. Must run inside the same transaction as the invoice insert
// so a failure cannot leak a number.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context, q db.Querier, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", invoiceNumberPrefix, now.Year())

	latest, err := q.GetLatestInvoiceNumber(ctx, prefix)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Sprintf("%s%04d", prefix, 1), nil
		}
		return "", fmt.Errorf("failed to get latest invoice number: %w", err)
	}

	suffix := strings.TrimPrefix(latest, prefix)
	sequence, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("malformed invoice number %q: %w", latest, err)
	}

	return fmt.Sprintf("%s%04d", prefix, sequence+1), nil
}

// GetInvoiceDetails retrieves an invoice with its parsed line items.
func (s *InvoiceService) GetInvoiceDetails(ctx context.Context, invoiceID uuid.UUID) (*responses.InvoiceResponse, error) {
	invoice, err := s.queries.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "invoice", ID: invoiceID.String()}
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return convertToInvoiceResponse(invoice)
}

// ListInvoicesByProject returns all invoices of a project, newest first.
func (s *InvoiceService) ListInvoicesByProject(ctx context.Context, projectID uuid.UUID) ([]responses.InvoiceResponse, error) {
	invoices, err := s.queries.ListInvoicesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	result := make([]responses.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		resp, err := convertToInvoiceResponse(invoice)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

// UpdateInvoiceStatus applies a validated status change. Payment-driven
// transitions (paid, partially_paid, refund demotion) belong to the payment
// service; this is the administrative path for draft/cancelled/overdue style
// changes.
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, invoiceID uuid.UUID, status string) (*responses.InvoiceResponse, error) {
	if !business.ValidInvoiceStatuses[status] {
		return nil, &InvalidStateError{Message: fmt.Sprintf("unknown invoice status %q", status)}
	}

	current, err := s.queries.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "invoice", ID: invoiceID.String()}
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if current.Status == business.InvoiceStatusCancelled && status != business.InvoiceStatusCancelled {
		return nil, &InvalidStateError{Message: "cancelled invoices cannot change status"}
	}
	if current.Status == business.InvoiceStatusPaid && status == business.InvoiceStatusCancelled {
		return nil, &InvalidStateError{Message: "paid invoices cannot be cancelled"}
	}

	paidAt := current.PaidAt
	if status == business.InvoiceStatusPaid && !paidAt.Valid {
		paidAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	}
	if status != business.InvoiceStatusPaid && status != business.InvoiceStatusPartiallyPaid {
		paidAt = pgtype.Timestamptz{}
	}

	invoice, err := s.queries.UpdateInvoiceStatus(ctx, db.UpdateInvoiceStatusParams{
		ID:     invoiceID,
		Status: status,
		PaidAt: paidAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.logger.Info("Invoice status updated",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("from", current.Status),
		zap.String("to", status))

	return convertToInvoiceResponse(invoice)
}

// MarkOverdueInvoices transitions unpaid and sent invoices past their due
// date to overdue. Returns the number of invoices affected.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context) (int64, error) {
	count, err := s.queries.MarkOverdueInvoices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	if count > 0 {
		s.logger.Info("Marked invoices overdue", zap.Int64("count", count))
	}
	return count, nil
}

// GetInvoiceStats aggregates invoice counts and cent totals, optionally
// scoped to one project.
func (s *InvoiceService) GetInvoiceStats(ctx context.Context, projectID *uuid.UUID) (*responses.InvoiceStatsResponse, error) {
	stats, err := s.queries.GetInvoiceStats(ctx, uuidToPgtype(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice stats: %w", err)
	}
	return &responses.InvoiceStatsResponse{
		TotalCount:            stats.TotalCount,
		PaidCount:             stats.PaidCount,
		OpenCount:             stats.OpenCount,
		OverdueCount:          stats.OverdueCount,
		TotalBilledCents:      stats.TotalBilledCents,
		TotalPaidCents:        stats.TotalPaidCents,
		TotalOutstandingCents: stats.TotalOutstandingCents,
	}, nil
}

// Utility functions

func uuidToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func timeToPtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func int8ToPtr(i pgtype.Int8) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

func convertToInvoiceResponse(invoice db.Invoice) (*responses.InvoiceResponse, error) {
	var items []business.InvoiceLineItem
	if len(invoice.Items) > 0 {
		if err := json.Unmarshal(invoice.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to parse invoice items: %w", err)
		}
	}

	var proposalID *uuid.UUID
	if invoice.ProposalID.Valid {
		id := uuid.UUID(invoice.ProposalID.Bytes)
		proposalID = &id
	}

	return &responses.InvoiceResponse{
		ID:                      invoice.ID,
		InvoiceNumber:           invoice.InvoiceNumber,
		ProjectID:               invoice.ProjectID,
		EstimationID:            invoice.EstimationID,
		ProposalID:              proposalID,
		ClientName:              invoice.ClientName,
		ClientEmail:             invoice.ClientEmail,
		ClientAddress:           textToPtr(invoice.ClientAddress),
		Items:                   items,
		SubtotalCents:           invoice.SubtotalCents,
		TaxRate:                 invoice.TaxRate,
		TaxAmountCents:          invoice.TaxAmountCents,
		TotalAmountCents:        invoice.TotalAmountCents,
		Status:                  invoice.Status,
		IssueDate:               invoice.IssueDate.Time,
		DueDate:                 invoice.DueDate.Time,
		PaidAt:                  timeToPtr(invoice.PaidAt),
		StripeCheckoutSessionID: textToPtr(invoice.StripeCheckoutSessionID),
		StripePaymentIntentID:   textToPtr(invoice.StripePaymentIntentID),
		StripeCustomerID:        textToPtr(invoice.StripeCustomerID),
		PaymentURL:              textToPtr(invoice.PaymentUrl),
		Notes:                   textToPtr(invoice.Notes),
		Terms:                   textToPtr(invoice.Terms),
		CreatedAt:               invoice.CreatedAt.Time,
		UpdatedAt:               invoice.UpdatedAt.Time,
	}, nil
}

func convertToPaymentResponse(payment db.Payment) responses.PaymentResponse {
	return responses.PaymentResponse{
		ID:              payment.ID,
		InvoiceID:       payment.InvoiceID,
		AmountCents:     payment.AmountCents,
		Method:          payment.Method,
		Status:          payment.Status,
		TransactionID:   textToPtr(payment.TransactionID),
		Gateway:         textToPtr(payment.Gateway),
		GatewayFeeCents: int8ToPtr(payment.GatewayFeeCents),
		Notes:           textToPtr(payment.Notes),
		PaidAt:          timeToPtr(payment.PaidAt),
		CreatedAt:       payment.CreatedAt.Time,
	}
}
