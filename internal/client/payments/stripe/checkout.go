package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments"
)

// Metadata keys the webhook handlers use to correlate gateway objects back to
// invoices.
const (
	metadataInvoiceID     = "invoice_id"
	metadataInvoiceNumber = "invoice_number"
)

// CreateCheckoutSession creates a hosted checkout session with a single line
// item priced at the invoice total. The invoice id is attached both to the
// session and to the payment intent it spawns, so payment_intent.succeeded
// events resolve without a session lookup.
func (s *Service) CreateCheckoutSession(ctx context.Context, params payments.CheckoutSessionParams) (payments.CheckoutSession, error) {
	metadata := map[string]string{
		metadataInvoiceID:     params.InvoiceID,
		metadataInvoiceNumber: params.InvoiceNumber,
	}

	sessionParams := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: metadata,
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata:    metadata,
			Description: stripe.String(params.Description),
		},
	}

	if params.CustomerID != "" {
		sessionParams.Customer = stripe.String(params.CustomerID)
	} else if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}

	session, err := s.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return payments.CheckoutSession{}, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.Info("Created Stripe checkout session",
		zap.String("session_id", session.ID),
		zap.String("invoice_id", params.InvoiceID),
		zap.Int64("amount_cents", params.AmountCents))

	return mapCheckoutSession(session), nil
}

// RetrieveCheckoutSession reads back a session for reconciliation and
// stale-session detection.
func (s *Service) RetrieveCheckoutSession(ctx context.Context, sessionID string) (payments.CheckoutSession, error) {
	session, err := s.client.V1CheckoutSessions.Retrieve(ctx, sessionID, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		return payments.CheckoutSession{}, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}
	return mapCheckoutSession(session), nil
}

// CreatePaymentIntent supports embedded/direct payment flows where the portal
// renders its own payment form instead of the hosted checkout page.
func (s *Service) CreatePaymentIntent(ctx context.Context, params payments.PaymentIntentParams) (payments.PaymentIntent, error) {
	intent, err := s.client.V1PaymentIntents.Create(ctx, &stripe.PaymentIntentCreateParams{
		Amount:       stripe.Int64(params.AmountCents),
		Currency:     stripe.String(params.Currency),
		Description:  stripe.String(params.Description),
		ReceiptEmail: stripe.String(params.CustomerEmail),
		Metadata: map[string]string{
			metadataInvoiceID:     params.InvoiceID,
			metadataInvoiceNumber: params.InvoiceNumber,
		},
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	})
	if err != nil {
		return payments.PaymentIntent{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.logger.Info("Created Stripe payment intent",
		zap.String("payment_intent_id", intent.ID),
		zap.String("invoice_id", params.InvoiceID))

	return mapPaymentIntent(intent), nil
}

// RetrievePaymentIntent reads back an intent, expanding the latest charge so
// the processing fee is available for Payment records.
func (s *Service) RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (payments.PaymentIntent, error) {
	retrieveParams := &stripe.PaymentIntentRetrieveParams{}
	retrieveParams.AddExpand("latest_charge.balance_transaction")

	intent, err := s.client.V1PaymentIntents.Retrieve(ctx, paymentIntentID, retrieveParams)
	if err != nil {
		return payments.PaymentIntent{}, fmt.Errorf("failed to retrieve payment intent %s: %w", paymentIntentID, err)
	}
	return mapPaymentIntent(intent), nil
}

// CreateRefund refunds a captured charge by payment intent id. A zero amount
// refunds the full charge.
func (s *Service) CreateRefund(ctx context.Context, params payments.RefundParams) (payments.Refund, error) {
	refundParams := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(params.TransactionID),
	}
	if params.AmountCents > 0 {
		refundParams.Amount = stripe.Int64(params.AmountCents)
	}
	if params.Reason != "" {
		refundParams.Reason = stripe.String(params.Reason)
	}

	refund, err := s.client.V1Refunds.Create(ctx, refundParams)
	if err != nil {
		return payments.Refund{}, fmt.Errorf("failed to create refund for %s: %w", params.TransactionID, err)
	}

	s.logger.Info("Created Stripe refund",
		zap.String("refund_id", refund.ID),
		zap.String("payment_intent_id", params.TransactionID),
		zap.Int64("amount_cents", refund.Amount))

	return payments.Refund{
		ID:          refund.ID,
		AmountCents: refund.Amount,
		Status:      string(refund.Status),
	}, nil
}

func mapCheckoutSession(session *stripe.CheckoutSession) payments.CheckoutSession {
	mapped := payments.CheckoutSession{
		ID:          session.ID,
		URL:         session.URL,
		Status:      string(session.Status),
		AmountCents: session.AmountTotal,
	}
	if session.PaymentIntent != nil {
		mapped.PaymentIntentID = session.PaymentIntent.ID
	}
	if session.Customer != nil {
		mapped.CustomerID = session.Customer.ID
	}
	return mapped
}

func mapPaymentIntent(intent *stripe.PaymentIntent) payments.PaymentIntent {
	mapped := payments.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		AmountCents:  intent.Amount,
		InvoiceID:    intent.Metadata[metadataInvoiceID],
	}
	if intent.Customer != nil {
		mapped.CustomerID = intent.Customer.ID
	}
	if intent.LatestCharge != nil && intent.LatestCharge.BalanceTransaction != nil {
		mapped.GatewayFeeCents = intent.LatestCharge.BalanceTransaction.Fee
	}
	return mapped
}
