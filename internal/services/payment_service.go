package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments"
	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/types/api/responses"
	"github.com/craftside/portal-api/internal/types/business"
)

// PaymentService orchestrates checkout initiation, webhook settlement and
// refunds. Gateway calls happen outside database transactions; settlement
// writes happen inside one so a payment row and its invoice transition commit
// together.
type PaymentService struct {
	queries  db.Querier
	tx       db.TxManager
	gateway  payments.Gateway
	logger   *zap.Logger
	email    EmailSender
	baseURL  string
	currency string
}

// NewPaymentService creates a new payment service. baseURL is the portal's
// public URL used for checkout redirect targets; currency is the ISO code
// charged (e.g. "usd").
func NewPaymentService(queries db.Querier, tx db.TxManager, gateway payments.Gateway, logger *zap.Logger, email EmailSender, baseURL, currency string) *PaymentService {
	return &PaymentService{
		queries:  queries,
		tx:       tx,
		gateway:  gateway,
		logger:   logger,
		email:    email,
		baseURL:  baseURL,
		currency: currency,
	}
}

// ProcessInvoicePayment starts (or resumes) a hosted checkout for an invoice.
// If a prior session is still open its URL is returned unchanged; expired or
// completed-elsewhere sessions are replaced. Paid and cancelled invoices are
// rejected.
func (s *PaymentService) ProcessInvoicePayment(ctx context.Context, invoiceID uuid.UUID) (*responses.PaymentProcessResult, error) {
	invoice, err := s.queries.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "invoice", ID: invoiceID.String()}
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	switch invoice.Status {
	case business.InvoiceStatusPaid:
		return nil, &InvalidStateError{Message: "invoice is already paid"}
	case business.InvoiceStatusCancelled:
		return nil, &InvalidStateError{Message: "cancelled invoices cannot be paid"}
	}

	if invoice.StripeCheckoutSessionID.Valid {
		session, err := s.gateway.RetrieveCheckoutSession(ctx, invoice.StripeCheckoutSessionID.String)
		if err != nil {
			// Stale reference at the gateway; fall through and create a
			// fresh session.
			s.logger.Warn("Failed to retrieve existing checkout session",
				zap.String("invoice_id", invoiceID.String()),
				zap.String("session_id", invoice.StripeCheckoutSessionID.String),
				zap.Error(err))
		} else if session.Open() {
			return nil, &DuplicateSessionError{InvoiceID: invoiceID.String()}
		}
	}

	customerID := ""
	if invoice.StripeCustomerID.Valid {
		customerID = invoice.StripeCustomerID.String
	} else {
		customerID, err = s.gateway.EnsureCustomer(ctx, invoice.ClientEmail, invoice.ClientName)
		if err != nil {
			return nil, &GatewayError{Op: "ensure customer", Err: err}
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutSessionParams{
		InvoiceID:     invoice.ID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    customerID,
		CustomerEmail: invoice.ClientEmail,
		CustomerName:  invoice.ClientName,
		AmountCents:   invoice.TotalAmountCents,
		Currency:      s.currency,
		Description:   fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
		SuccessURL:    fmt.Sprintf("%s/invoices/%s?payment=success", s.baseURL, invoice.ID),
		CancelURL:     fmt.Sprintf("%s/invoices/%s?payment=cancelled", s.baseURL, invoice.ID),
	})
	if err != nil {
		return nil, &GatewayError{Op: "create checkout session", Err: err}
	}

	status := invoice.Status
	if status == business.InvoiceStatusDraft || status == business.InvoiceStatusUnpaid {
		status = business.InvoiceStatusSent
	}

	updated, err := s.queries.UpdateInvoiceCheckoutSession(ctx, db.UpdateInvoiceCheckoutSessionParams{
		ID:                      invoice.ID,
		StripeCheckoutSessionID: pgtype.Text{String: session.ID, Valid: true},
		StripeCustomerID:        pgtype.Text{String: customerID, Valid: customerID != ""},
		PaymentUrl:              pgtype.Text{String: session.URL, Valid: session.URL != ""},
		Status:                  status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record checkout session: %w", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("session_id", session.ID),
		zap.Int64("amount_cents", invoice.TotalAmountCents))

	resp, err := convertToInvoiceResponse(updated)
	if err != nil {
		return nil, err
	}
	return &responses.PaymentProcessResult{Success: true, Invoice: resp}, nil
}

// ProcessWebhookEvent dispatches a verified gateway event to the matching
// settlement path. Permanently unprocessable deliveries (unknown kinds,
// malformed correlation metadata, unresolvable invoices) are acknowledged
// without processing so the gateway does not retry them forever; only
// transient failures propagate as errors.
func (s *PaymentService) ProcessWebhookEvent(ctx context.Context, event payments.WebhookEvent) (*business.WebhookResult, error) {
	if !event.SignatureValid {
		return nil, &WebhookVerificationError{Err: fmt.Errorf("event %s rejected", event.ProviderEventID)}
	}

	var (
		result *business.WebhookResult
		err    error
	)
	switch event.Kind {
	case payments.EventPaymentSucceeded:
		result, err = s.ProcessSuccessfulPayment(ctx, event.PaymentIntentID, event.InvoiceID)
	case payments.EventPaymentFailed:
		result, err = s.ProcessFailedPayment(ctx, event.PaymentIntentID, event.InvoiceID)
	case payments.EventCheckoutCompleted:
		result, err = s.ProcessCheckoutSessionCompleted(ctx, event.CheckoutSessionID)
	default:
		s.logger.Info("Ignoring webhook event",
			zap.String("provider", event.Provider),
			zap.String("event_type", event.ProviderEventType),
			zap.String("event_id", event.ProviderEventID))
		return &business.WebhookResult{Processed: false, Message: "event type not handled"}, nil
	}
	if err != nil {
		var malformed *MalformedEventError
		var notFound *NotFoundError
		if errors.As(err, &malformed) || errors.As(err, &notFound) {
			// Retrying cannot fix a bad payload or a reference to an
			// invoice this system never issued.
			s.logger.Warn("Acknowledging unprocessable webhook event",
				zap.String("provider", event.Provider),
				zap.String("event_type", event.ProviderEventType),
				zap.String("event_id", event.ProviderEventID),
				zap.Error(err))
			return &business.WebhookResult{Processed: false, Message: err.Error()}, nil
		}
		return nil, err
	}
	return result, nil
}

// ProcessSuccessfulPayment records a completed payment and transitions the
// invoice. Safe under duplicate delivery: an existing completed row for the
// same intent, or an already-paid invoice, is a silent no-op.
func (s *PaymentService) ProcessSuccessfulPayment(ctx context.Context, paymentIntentID, invoiceIDHint string) (*business.WebhookResult, error) {
	if paymentIntentID == "" {
		return nil, &MalformedEventError{Message: "payment event has no payment intent id"}
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, &GatewayError{Op: "retrieve payment intent", Err: err}
	}
	if !intent.Succeeded() {
		return nil, &MalformedEventError{Message: fmt.Sprintf("payment intent %s is not succeeded", paymentIntentID)}
	}

	invoice, err := s.resolveInvoice(ctx, intent, invoiceIDHint)
	if err != nil {
		return nil, err
	}

	result := &business.WebhookResult{Processed: true, InvoiceID: invoice.ID.String()}

	txErr := s.tx.WithTx(ctx, func(q db.Querier) error {
		current, err := q.GetInvoiceByID(ctx, invoice.ID)
		if err != nil {
			return fmt.Errorf("failed to reload invoice: %w", err)
		}
		if current.Status == business.InvoiceStatusPaid {
			result.Message = "invoice already paid"
			return nil
		}

		transactionID := pgtype.Text{String: intent.ID, Valid: true}
		_, err = q.GetCompletedPaymentByTransaction(ctx, db.GetCompletedPaymentByTransactionParams{
			InvoiceID:     invoice.ID,
			TransactionID: transactionID,
		})
		if err == nil {
			result.Message = "payment already recorded"
			return nil
		}
		if !db.IsNotFound(err) {
			return fmt.Errorf("failed to check existing payment: %w", err)
		}

		_, err = q.CreatePayment(ctx, db.CreatePaymentParams{
			InvoiceID:       invoice.ID,
			AmountCents:     intent.AmountCents,
			Method:          business.PaymentMethodStripe,
			Status:          business.PaymentStatusCompleted,
			TransactionID:   transactionID,
			Gateway:         pgtype.Text{String: s.gateway.Name(), Valid: true},
			GatewayFeeCents: pgtype.Int8{Int64: intent.GatewayFeeCents, Valid: intent.GatewayFeeCents > 0},
			PaidAt:          pgtype.Timestamptz{Time: time.Now(), Valid: true},
		})
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		paid, err := q.GetInvoicePaidAmount(ctx, invoice.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		if paid >= current.TotalAmountCents {
			_, err = q.MarkInvoicePaid(ctx, db.MarkInvoicePaidParams{
				ID:                    invoice.ID,
				StripePaymentIntentID: transactionID,
			})
			if err != nil && !db.IsNotFound(err) {
				return fmt.Errorf("failed to mark invoice paid: %w", err)
			}
			result.Message = "invoice paid"
			return nil
		}

		_, err = q.UpdateInvoiceStatus(ctx, db.UpdateInvoiceStatusParams{
			ID:     invoice.ID,
			Status: business.InvoiceStatusPartiallyPaid,
			PaidAt: pgtype.Timestamptz{},
		})
		if err != nil {
			return fmt.Errorf("failed to mark invoice partially paid: %w", err)
		}
		result.Message = "partial payment recorded"
		return nil
	})
	if txErr != nil {
		if db.IsUniqueViolation(txErr) {
			// A concurrent delivery of the same event won the race.
			s.logger.Info("Duplicate payment delivery ignored",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("payment_intent_id", paymentIntentID))
			result.Message = "payment already recorded"
			return result, nil
		}
		return nil, txErr
	}

	s.logger.Info("Payment settled",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("payment_intent_id", paymentIntentID),
		zap.Int64("amount_cents", intent.AmountCents),
		zap.String("outcome", result.Message))

	if result.Message == "invoice paid" {
		if err := s.email.SendPaymentReceived(ctx, InvoiceEmailParams{
			To:            invoice.ClientEmail,
			ClientName:    invoice.ClientName,
			InvoiceNumber: invoice.InvoiceNumber,
			AmountCents:   intent.AmountCents,
		}); err != nil {
			s.logger.Warn("Failed to send payment received email",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err))
		}
	}

	return result, nil
}

// ProcessFailedPayment records a failed attempt for audit. The invoice keeps
// its current status so the client can retry.
func (s *PaymentService) ProcessFailedPayment(ctx context.Context, paymentIntentID, invoiceIDHint string) (*business.WebhookResult, error) {
	if paymentIntentID == "" {
		return nil, &MalformedEventError{Message: "payment event has no payment intent id"}
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, &GatewayError{Op: "retrieve payment intent", Err: err}
	}

	invoice, err := s.resolveInvoice(ctx, intent, invoiceIDHint)
	if err != nil {
		return nil, err
	}

	_, err = s.queries.CreatePayment(ctx, db.CreatePaymentParams{
		InvoiceID:     invoice.ID,
		AmountCents:   intent.AmountCents,
		Method:        business.PaymentMethodStripe,
		Status:        business.PaymentStatusFailed,
		TransactionID: pgtype.Text{String: intent.ID, Valid: true},
		Gateway:       pgtype.Text{String: s.gateway.Name(), Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record failed payment: %w", err)
	}

	s.logger.Warn("Payment attempt failed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("payment_intent_id", paymentIntentID))

	return &business.WebhookResult{
		Processed: true,
		InvoiceID: invoice.ID.String(),
		Message:   "failed payment recorded",
	}, nil
}

// ProcessCheckoutSessionCompleted persists the gateway customer id from a
// completed session and settles through the session's payment intent.
func (s *PaymentService) ProcessCheckoutSessionCompleted(ctx context.Context, sessionID string) (*business.WebhookResult, error) {
	if sessionID == "" {
		return nil, &MalformedEventError{Message: "checkout event has no session id"}
	}

	session, err := s.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, &GatewayError{Op: "retrieve checkout session", Err: err}
	}
	if session.PaymentIntentID == "" {
		return nil, &MalformedEventError{Message: fmt.Sprintf("checkout session %s has no payment intent", sessionID)}
	}

	// Best effort: settlement proceeds through the payment intent either way.
	invoice, err := s.queries.GetInvoiceByCheckoutSession(ctx, pgtype.Text{String: sessionID, Valid: true})
	switch {
	case err == nil:
		if session.CustomerID != "" && !invoice.StripeCustomerID.Valid {
			if err := s.queries.UpdateInvoiceStripeCustomer(ctx, db.UpdateInvoiceStripeCustomerParams{
				ID:               invoice.ID,
				StripeCustomerID: pgtype.Text{String: session.CustomerID, Valid: true},
			}); err != nil {
				s.logger.Warn("Failed to persist gateway customer id",
					zap.String("invoice_id", invoice.ID.String()),
					zap.Error(err))
			}
		}
	case !db.IsNotFound(err):
		s.logger.Warn("Failed to look up invoice for checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return s.ProcessSuccessfulPayment(ctx, session.PaymentIntentID, "")
}

// resolveInvoice maps a payment intent back to its invoice, preferring the
// metadata invoice id and falling back to the stored intent reference.
func (s *PaymentService) resolveInvoice(ctx context.Context, intent payments.PaymentIntent, invoiceIDHint string) (db.Invoice, error) {
	candidate := intent.InvoiceID
	if candidate == "" {
		candidate = invoiceIDHint
	}

	if candidate != "" {
		id, err := uuid.Parse(candidate)
		if err != nil {
			return db.Invoice{}, &MalformedEventError{Message: fmt.Sprintf("invalid invoice id %q in event metadata", candidate)}
		}
		invoice, err := s.queries.GetInvoiceByID(ctx, id)
		if err == nil {
			return invoice, nil
		}
		if !db.IsNotFound(err) {
			return db.Invoice{}, fmt.Errorf("failed to get invoice: %w", err)
		}
	}

	invoice, err := s.queries.GetInvoiceByPaymentIntent(ctx, pgtype.Text{String: intent.ID, Valid: true})
	if err != nil {
		if db.IsNotFound(err) {
			return db.Invoice{}, &NotFoundError{Resource: "invoice for payment intent", ID: intent.ID}
		}
		return db.Invoice{}, fmt.Errorf("failed to get invoice by payment intent: %w", err)
	}
	return invoice, nil
}

// GetInvoicePaymentStatus derives the payment position of an invoice from its
// completed payment rows.
func (s *PaymentService) GetInvoicePaymentStatus(ctx context.Context, invoiceID uuid.UUID) (*responses.PaymentStatusResponse, error) {
	invoice, err := s.queries.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "invoice", ID: invoiceID.String()}
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	rows, err := s.queries.GetPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	var paid int64
	paymentsOut := make([]responses.PaymentResponse, 0, len(rows))
	for _, p := range rows {
		if p.Status == business.PaymentStatusCompleted {
			paid += p.AmountCents
		}
		paymentsOut = append(paymentsOut, convertToPaymentResponse(p))
	}

	remaining := invoice.TotalAmountCents - paid
	if remaining < 0 {
		remaining = 0
	}

	return &responses.PaymentStatusResponse{
		Status:               invoice.Status,
		PaidAmountCents:      paid,
		TotalAmountCents:     invoice.TotalAmountCents,
		RemainingAmountCents: remaining,
		Payments:             paymentsOut,
	}, nil
}

// RefundPayment refunds a completed payment at the gateway and records a
// negative payment row. When the refund clears the paid balance on a billed
// invoice, the invoice drops back to unpaid.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uuid.UUID, amountCents *int64, reason string) (*responses.RefundResult, error) {
	payment, err := s.queries.GetPayment(ctx, paymentID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "payment", ID: paymentID.String()}
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.Status != business.PaymentStatusCompleted {
		return nil, &InvalidStateError{Message: "only completed payments can be refunded"}
	}
	if !payment.TransactionID.Valid {
		return nil, &InvalidStateError{Message: "payment has no gateway transaction to refund"}
	}
	if payment.AmountCents <= 0 {
		return nil, &InvalidStateError{Message: "refund rows cannot be refunded"}
	}

	refundCents := payment.AmountCents
	if amountCents != nil {
		if *amountCents <= 0 || *amountCents > payment.AmountCents {
			return nil, &InvalidStateError{Message: "refund amount must be positive and at most the payment amount"}
		}
		refundCents = *amountCents
	}

	refund, err := s.gateway.CreateRefund(ctx, payments.RefundParams{
		TransactionID: payment.TransactionID.String,
		AmountCents:   refundCents,
		Reason:        reason,
	})
	if err != nil {
		return nil, &GatewayError{Op: "create refund", Err: err}
	}

	var refundRow db.Payment
	txErr := s.tx.WithTx(ctx, func(q db.Querier) error {
		var err error
		refundRow, err = q.CreatePayment(ctx, db.CreatePaymentParams{
			InvoiceID:     payment.InvoiceID,
			AmountCents:   -refundCents,
			Method:        payment.Method,
			Status:        business.PaymentStatusCompleted,
			TransactionID: pgtype.Text{String: refund.ID, Valid: true},
			Gateway:       payment.Gateway,
			Notes:         pgtype.Text{String: reason, Valid: reason != ""},
			PaidAt:        pgtype.Timestamptz{Time: time.Now(), Valid: true},
		})
		if err != nil {
			return fmt.Errorf("failed to record refund: %w", err)
		}

		paid, err := q.GetInvoicePaidAmount(ctx, payment.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		invoice, err := q.GetInvoiceByID(ctx, payment.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		status := invoice.Status
		switch {
		case paid <= 0 && invoice.TotalAmountCents > 0:
			status = business.InvoiceStatusUnpaid
		case paid < invoice.TotalAmountCents:
			status = business.InvoiceStatusPartiallyPaid
		}
		if status != invoice.Status {
			_, err = q.UpdateInvoiceStatus(ctx, db.UpdateInvoiceStatusParams{
				ID:     invoice.ID,
				Status: status,
				PaidAt: pgtype.Timestamptz{},
			})
			if err != nil {
				return fmt.Errorf("failed to update invoice after refund: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		// The gateway refund already went through; the caller must reconcile.
		s.logger.Error("Refund issued at gateway but not recorded",
			zap.String("payment_id", paymentID.String()),
			zap.String("refund_id", refund.ID),
			zap.Error(txErr))
		return nil, txErr
	}

	s.logger.Info("Payment refunded",
		zap.String("payment_id", paymentID.String()),
		zap.String("refund_id", refund.ID),
		zap.Int64("amount_cents", refundCents))

	resp := convertToPaymentResponse(refundRow)
	return &responses.RefundResult{Success: true, Payment: &resp}, nil
}
