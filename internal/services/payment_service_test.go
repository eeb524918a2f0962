package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments"
	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/mocks"
	"github.com/craftside/portal-api/internal/services"
	"github.com/craftside/portal-api/internal/types/business"
)

func newPaymentService(q db.Querier, g payments.Gateway) *services.PaymentService {
	return services.NewPaymentService(q, &fakeTxManager{q: q}, g, zap.NewNop(), services.NoopEmailSender{}, "https://portal.test", "usd")
}

func unpaidInvoice(id uuid.UUID) db.Invoice {
	return db.Invoice{
		ID:               id,
		InvoiceNumber:    "INV-2026-0042",
		ProjectID:        uuid.New(),
		EstimationID:     uuid.New(),
		ClientName:       "Acme GmbH",
		ClientEmail:      "billing@acme.test",
		Items:            []byte(`[]`),
		SubtotalCents:    10000,
		TaxRate:          0.19,
		TaxAmountCents:   1900,
		TotalAmountCents: 11900,
		Status:           business.InvoiceStatusUnpaid,
	}
}

func TestPaymentService_ProcessInvoicePayment(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()

	t.Run("creates checkout session and marks invoice sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)
		mockGateway.EXPECT().EnsureCustomer(ctx, "billing@acme.test", "Acme GmbH").Return("cus_123", nil)
		mockGateway.EXPECT().CreateCheckoutSession(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, params payments.CheckoutSessionParams) (payments.CheckoutSession, error) {
				assert.Equal(t, invoiceID.String(), params.InvoiceID)
				assert.Equal(t, int64(11900), params.AmountCents)
				assert.Equal(t, "usd", params.Currency)
				assert.Equal(t, "cus_123", params.CustomerID)
				return payments.CheckoutSession{
					ID:     "cs_123",
					URL:    "https://checkout.stripe.test/cs_123",
					Status: payments.SessionStatusOpen,
				}, nil
			})
		mockQuerier.EXPECT().UpdateInvoiceCheckoutSession(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.UpdateInvoiceCheckoutSessionParams) (db.Invoice, error) {
				assert.Equal(t, "cs_123", arg.StripeCheckoutSessionID.String)
				assert.Equal(t, business.InvoiceStatusSent, arg.Status)
				updated := invoice
				updated.Status = arg.Status
				updated.StripeCheckoutSessionID = arg.StripeCheckoutSessionID
				updated.PaymentUrl = arg.PaymentUrl
				return updated, nil
			})

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessInvoicePayment(ctx, invoiceID)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Invoice)
		assert.Equal(t, business.InvoiceStatusSent, result.Invoice.Status)
		require.NotNil(t, result.Invoice.PaymentURL)
		assert.Equal(t, "https://checkout.stripe.test/cs_123", *result.Invoice.PaymentURL)
	})

	t.Run("rejects paid invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		invoice.Status = business.InvoiceStatusPaid
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessInvoicePayment(ctx, invoiceID)
		require.Error(t, err)
		assert.True(t, services.IsInvalidState(err))
	})

	t.Run("returns conflict while a session is still open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		invoice.StripeCheckoutSessionID = pgtype.Text{String: "cs_open", Valid: true}
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)
		mockGateway.EXPECT().RetrieveCheckoutSession(ctx, "cs_open").Return(payments.CheckoutSession{
			ID:     "cs_open",
			Status: payments.SessionStatusOpen,
		}, nil)

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessInvoicePayment(ctx, invoiceID)
		require.Error(t, err)
		var dup *services.DuplicateSessionError
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("replaces an expired session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		invoice.Status = business.InvoiceStatusSent
		invoice.StripeCheckoutSessionID = pgtype.Text{String: "cs_old", Valid: true}
		invoice.StripeCustomerID = pgtype.Text{String: "cus_123", Valid: true}

		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)
		mockGateway.EXPECT().RetrieveCheckoutSession(ctx, "cs_old").Return(payments.CheckoutSession{
			ID:     "cs_old",
			Status: payments.SessionStatusExpired,
		}, nil)
		mockGateway.EXPECT().CreateCheckoutSession(ctx, gomock.Any()).Return(payments.CheckoutSession{
			ID:     "cs_new",
			URL:    "https://checkout.stripe.test/cs_new",
			Status: payments.SessionStatusOpen,
		}, nil)
		mockQuerier.EXPECT().UpdateInvoiceCheckoutSession(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.UpdateInvoiceCheckoutSessionParams) (db.Invoice, error) {
				assert.Equal(t, "cs_new", arg.StripeCheckoutSessionID.String)
				updated := invoice
				updated.StripeCheckoutSessionID = arg.StripeCheckoutSessionID
				return updated, nil
			})

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessInvoicePayment(ctx, invoiceID)
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("wraps gateway failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(unpaidInvoice(invoiceID), nil)
		mockGateway.EXPECT().EnsureCustomer(ctx, gomock.Any(), gomock.Any()).Return("", errors.New("stripe: api key expired"))

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessInvoicePayment(ctx, invoiceID)
		require.Error(t, err)
		var gw *services.GatewayError
		require.ErrorAs(t, err, &gw)
		// Raw gateway detail stays out of the client-facing message.
		assert.NotContains(t, err.Error(), "api key")
	})
}

func TestPaymentService_ProcessSuccessfulPayment(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()
	intentID := "pi_123"

	succeededIntent := payments.PaymentIntent{
		ID:              intentID,
		Status:          "succeeded",
		AmountCents:     11900,
		GatewayFeeCents: 375,
		InvoiceID:       invoiceID.String(),
	}

	t.Run("full payment marks invoice paid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(succeededIntent, nil)
		mockGateway.EXPECT().Name().Return("stripe")
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil).Times(2)
		mockQuerier.EXPECT().GetCompletedPaymentByTransaction(ctx, gomock.Any()).Return(db.Payment{}, pgx.ErrNoRows)
		mockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.CreatePaymentParams) (db.Payment, error) {
				assert.Equal(t, int64(11900), arg.AmountCents)
				assert.Equal(t, business.PaymentStatusCompleted, arg.Status)
				assert.Equal(t, intentID, arg.TransactionID.String)
				assert.Equal(t, int64(375), arg.GatewayFeeCents.Int64)
				return db.Payment{ID: uuid.New(), InvoiceID: invoiceID, AmountCents: arg.AmountCents}, nil
			})
		mockQuerier.EXPECT().GetInvoicePaidAmount(ctx, invoiceID).Return(int64(11900), nil)
		mockQuerier.EXPECT().MarkInvoicePaid(ctx, db.MarkInvoicePaidParams{
			ID:                    invoiceID,
			StripePaymentIntentID: pgtype.Text{String: intentID, Valid: true},
		}).Return(invoice, nil)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, intentID, "")
		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "invoice paid", result.Message)
	})

	t.Run("partial payment marks invoice partially paid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		partial := succeededIntent
		partial.AmountCents = 5000

		invoice := unpaidInvoice(invoiceID)
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(partial, nil)
		mockGateway.EXPECT().Name().Return("stripe")
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil).Times(2)
		mockQuerier.EXPECT().GetCompletedPaymentByTransaction(ctx, gomock.Any()).Return(db.Payment{}, pgx.ErrNoRows)
		mockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).Return(db.Payment{ID: uuid.New()}, nil)
		mockQuerier.EXPECT().GetInvoicePaidAmount(ctx, invoiceID).Return(int64(5000), nil)
		mockQuerier.EXPECT().UpdateInvoiceStatus(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.UpdateInvoiceStatusParams) (db.Invoice, error) {
				assert.Equal(t, business.InvoiceStatusPartiallyPaid, arg.Status)
				return invoice, nil
			})

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, intentID, "")
		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "partial payment recorded", result.Message)
	})

	t.Run("already paid invoice is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		paid := unpaidInvoice(invoiceID)
		paid.Status = business.InvoiceStatusPaid
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(succeededIntent, nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(paid, nil).Times(2)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, intentID, "")
		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "invoice already paid", result.Message)
	})

	t.Run("duplicate delivery of the same intent is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(succeededIntent, nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil).Times(2)
		mockQuerier.EXPECT().GetCompletedPaymentByTransaction(ctx, gomock.Any()).Return(db.Payment{
			ID:            uuid.New(),
			InvoiceID:     invoiceID,
			TransactionID: pgtype.Text{String: intentID, Valid: true},
			Status:        business.PaymentStatusCompleted,
		}, nil)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, intentID, "")
		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "payment already recorded", result.Message)
	})

	t.Run("concurrent duplicate resolved by unique constraint", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(succeededIntent, nil)
		mockGateway.EXPECT().Name().Return("stripe")
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil).Times(2)
		mockQuerier.EXPECT().GetCompletedPaymentByTransaction(ctx, gomock.Any()).Return(db.Payment{}, pgx.ErrNoRows)
		mockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).Return(db.Payment{}, uniqueViolation())

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, intentID, "")
		require.NoError(t, err)
		assert.Equal(t, "payment already recorded", result.Message)
	})

	t.Run("falls back to stored intent reference when metadata is missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		bare := succeededIntent
		bare.InvoiceID = ""

		invoice := unpaidInvoice(invoiceID)
		invoice.Status = business.InvoiceStatusPaid
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(bare, nil)
		mockQuerier.EXPECT().GetInvoiceByPaymentIntent(ctx, pgtype.Text{String: intentID, Valid: true}).Return(invoice, nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, intentID, "")
		require.NoError(t, err)
		assert.Equal(t, "invoice already paid", result.Message)
	})

	t.Run("rejects event without payment intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessSuccessfulPayment(ctx, "", "")
		require.Error(t, err)
		var malformed *services.MalformedEventError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestPaymentService_ProcessFailedPayment(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()
	intentID := "pi_failed"

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockGateway := mocks.NewMockGateway(ctrl)

	invoice := unpaidInvoice(invoiceID)
	mockGateway.EXPECT().RetrievePaymentIntent(ctx, intentID).Return(payments.PaymentIntent{
		ID:          intentID,
		Status:      "requires_payment_method",
		AmountCents: 11900,
		InvoiceID:   invoiceID.String(),
	}, nil)
	mockGateway.EXPECT().Name().Return("stripe")
	mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)
	mockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, arg db.CreatePaymentParams) (db.Payment, error) {
			assert.Equal(t, business.PaymentStatusFailed, arg.Status)
			assert.False(t, arg.PaidAt.Valid)
			return db.Payment{ID: uuid.New()}, nil
		})

	result, err := newPaymentService(mockQuerier, mockGateway).ProcessFailedPayment(ctx, intentID, "")
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, "failed payment recorded", result.Message)
}

func TestPaymentService_ProcessWebhookEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown event kind is acknowledged without processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessWebhookEvent(ctx, payments.WebhookEvent{
			Kind:              payments.EventUnknown,
			Provider:          "stripe",
			ProviderEventType: "customer.updated",
			SignatureValid:    true,
		})
		require.NoError(t, err)
		assert.False(t, result.Processed)
	})

	t.Run("unparseable invoice metadata is acknowledged without processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		mockGateway.EXPECT().RetrievePaymentIntent(ctx, "pi_bad").Return(payments.PaymentIntent{
			ID:          "pi_bad",
			Status:      "succeeded",
			AmountCents: 11900,
			InvoiceID:   "not-a-uuid",
		}, nil)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessWebhookEvent(ctx, payments.WebhookEvent{
			Kind:            payments.EventPaymentSucceeded,
			Provider:        "stripe",
			ProviderEventID: "evt_bad_meta",
			PaymentIntentID: "pi_bad",
			SignatureValid:  true,
		})
		require.NoError(t, err)
		assert.False(t, result.Processed)
		assert.Contains(t, result.Message, "not-a-uuid")
	})

	t.Run("unresolvable invoice is acknowledged without processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		mockGateway.EXPECT().RetrievePaymentIntent(ctx, "pi_orphan").Return(payments.PaymentIntent{
			ID:          "pi_orphan",
			Status:      "succeeded",
			AmountCents: 11900,
		}, nil)
		mockQuerier.EXPECT().GetInvoiceByPaymentIntent(ctx, pgtype.Text{String: "pi_orphan", Valid: true}).
			Return(db.Invoice{}, pgx.ErrNoRows)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessWebhookEvent(ctx, payments.WebhookEvent{
			Kind:            payments.EventPaymentSucceeded,
			Provider:        "stripe",
			ProviderEventID: "evt_orphan",
			PaymentIntentID: "pi_orphan",
			SignatureValid:  true,
		})
		require.NoError(t, err)
		assert.False(t, result.Processed)
	})

	t.Run("event without payment intent id is acknowledged without processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessWebhookEvent(ctx, payments.WebhookEvent{
			Kind:           payments.EventPaymentSucceeded,
			Provider:       "stripe",
			SignatureValid: true,
		})
		require.NoError(t, err)
		assert.False(t, result.Processed)
	})

	t.Run("transient gateway failure propagates for retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		mockGateway.EXPECT().RetrievePaymentIntent(ctx, "pi_123").Return(payments.PaymentIntent{}, errors.New("stripe: 500"))

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessWebhookEvent(ctx, payments.WebhookEvent{
			Kind:            payments.EventPaymentSucceeded,
			Provider:        "stripe",
			PaymentIntentID: "pi_123",
			SignatureValid:  true,
		})
		require.Error(t, err)
		var gw *services.GatewayError
		assert.ErrorAs(t, err, &gw)
	})

	t.Run("invalid signature fails closed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessWebhookEvent(ctx, payments.WebhookEvent{
			Kind:           payments.EventPaymentSucceeded,
			SignatureValid: false,
		})
		require.Error(t, err)
		var sig *services.WebhookVerificationError
		assert.ErrorAs(t, err, &sig)
	})
}

func TestPaymentService_ProcessCheckoutSessionCompleted(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()

	t.Run("persists customer id and settles via the session intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		invoice.Status = business.InvoiceStatusPaid

		mockGateway.EXPECT().RetrieveCheckoutSession(ctx, "cs_123").Return(payments.CheckoutSession{
			ID:              "cs_123",
			Status:          payments.SessionStatusComplete,
			PaymentIntentID: "pi_123",
			CustomerID:      "cus_123",
		}, nil)
		mockQuerier.EXPECT().GetInvoiceByCheckoutSession(ctx, pgtype.Text{String: "cs_123", Valid: true}).Return(invoice, nil)
		mockQuerier.EXPECT().UpdateInvoiceStripeCustomer(ctx, db.UpdateInvoiceStripeCustomerParams{
			ID:               invoiceID,
			StripeCustomerID: pgtype.Text{String: "cus_123", Valid: true},
		}).Return(nil)
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, "pi_123").Return(payments.PaymentIntent{
			ID:          "pi_123",
			Status:      "succeeded",
			AmountCents: 11900,
			InvoiceID:   invoiceID.String(),
		}, nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil).Times(2)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessCheckoutSessionCompleted(ctx, "cs_123")
		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "invoice already paid", result.Message)
	})

	t.Run("session lookup failure does not block settlement", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		invoice := unpaidInvoice(invoiceID)
		invoice.Status = business.InvoiceStatusPaid

		mockGateway.EXPECT().RetrieveCheckoutSession(ctx, "cs_123").Return(payments.CheckoutSession{
			ID:              "cs_123",
			Status:          payments.SessionStatusComplete,
			PaymentIntentID: "pi_123",
			CustomerID:      "cus_123",
		}, nil)
		mockQuerier.EXPECT().GetInvoiceByCheckoutSession(ctx, gomock.Any()).Return(db.Invoice{}, errors.New("connection reset"))
		mockGateway.EXPECT().RetrievePaymentIntent(ctx, "pi_123").Return(payments.PaymentIntent{
			ID:          "pi_123",
			Status:      "succeeded",
			AmountCents: 11900,
			InvoiceID:   invoiceID.String(),
		}, nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil).Times(2)

		result, err := newPaymentService(mockQuerier, mockGateway).ProcessCheckoutSessionCompleted(ctx, "cs_123")
		require.NoError(t, err)
		assert.True(t, result.Processed)
	})

	t.Run("rejects session without a payment intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		mockGateway.EXPECT().RetrieveCheckoutSession(ctx, "cs_open").Return(payments.CheckoutSession{
			ID:     "cs_open",
			Status: payments.SessionStatusOpen,
		}, nil)

		_, err := newPaymentService(mockQuerier, mockGateway).ProcessCheckoutSessionCompleted(ctx, "cs_open")
		require.Error(t, err)
		var malformed *services.MalformedEventError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestPaymentService_RefundPayment(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()
	paymentID := uuid.New()

	completedPayment := db.Payment{
		ID:            paymentID,
		InvoiceID:     invoiceID,
		AmountCents:   11900,
		Method:        business.PaymentMethodStripe,
		Status:        business.PaymentStatusCompleted,
		TransactionID: pgtype.Text{String: "pi_123", Valid: true},
		Gateway:       pgtype.Text{String: "stripe", Valid: true},
	}

	t.Run("full refund drops invoice back to unpaid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		paid := unpaidInvoice(invoiceID)
		paid.Status = business.InvoiceStatusPaid

		mockQuerier.EXPECT().GetPayment(ctx, paymentID).Return(completedPayment, nil)
		mockGateway.EXPECT().CreateRefund(ctx, payments.RefundParams{
			TransactionID: "pi_123",
			AmountCents:   11900,
			Reason:        "requested_by_customer",
		}).Return(payments.Refund{ID: "re_123", AmountCents: 11900, Status: "succeeded"}, nil)
		mockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.CreatePaymentParams) (db.Payment, error) {
				assert.Equal(t, int64(-11900), arg.AmountCents)
				assert.Equal(t, "re_123", arg.TransactionID.String)
				return db.Payment{ID: uuid.New(), InvoiceID: invoiceID, AmountCents: arg.AmountCents, Status: arg.Status}, nil
			})
		mockQuerier.EXPECT().GetInvoicePaidAmount(ctx, invoiceID).Return(int64(0), nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(paid, nil)
		mockQuerier.EXPECT().UpdateInvoiceStatus(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.UpdateInvoiceStatusParams) (db.Invoice, error) {
				assert.Equal(t, business.InvoiceStatusUnpaid, arg.Status)
				assert.False(t, arg.PaidAt.Valid)
				updated := paid
				updated.Status = arg.Status
				return updated, nil
			})

		result, err := newPaymentService(mockQuerier, mockGateway).RefundPayment(ctx, paymentID, nil, "requested_by_customer")
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Payment)
		assert.Equal(t, int64(-11900), result.Payment.AmountCents)
	})

	t.Run("partial refund demotes invoice to partially paid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		paid := unpaidInvoice(invoiceID)
		paid.Status = business.InvoiceStatusPaid
		amount := int64(5000)

		mockQuerier.EXPECT().GetPayment(ctx, paymentID).Return(completedPayment, nil)
		mockGateway.EXPECT().CreateRefund(ctx, gomock.Any()).Return(payments.Refund{ID: "re_456", AmountCents: amount}, nil)
		mockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).Return(db.Payment{ID: uuid.New(), AmountCents: -amount}, nil)
		mockQuerier.EXPECT().GetInvoicePaidAmount(ctx, invoiceID).Return(int64(6900), nil)
		mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(paid, nil)
		mockQuerier.EXPECT().UpdateInvoiceStatus(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, arg db.UpdateInvoiceStatusParams) (db.Invoice, error) {
				assert.Equal(t, business.InvoiceStatusPartiallyPaid, arg.Status)
				return paid, nil
			})

		result, err := newPaymentService(mockQuerier, mockGateway).RefundPayment(ctx, paymentID, &amount, "")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("rejects refund of a non-completed payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		pending := completedPayment
		pending.Status = business.PaymentStatusPending
		mockQuerier.EXPECT().GetPayment(ctx, paymentID).Return(pending, nil)

		_, err := newPaymentService(mockQuerier, mockGateway).RefundPayment(ctx, paymentID, nil, "")
		require.Error(t, err)
		assert.True(t, services.IsInvalidState(err))
	})

	t.Run("rejects refund larger than the payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuerier := mocks.NewMockQuerier(ctrl)
		mockGateway := mocks.NewMockGateway(ctrl)

		mockQuerier.EXPECT().GetPayment(ctx, paymentID).Return(completedPayment, nil)
		amount := int64(20000)

		_, err := newPaymentService(mockQuerier, mockGateway).RefundPayment(ctx, paymentID, &amount, "")
		require.Error(t, err)
		assert.True(t, services.IsInvalidState(err))
	})
}

func TestPaymentService_GetInvoicePaymentStatus(t *testing.T) {
	ctx := context.Background()
	invoiceID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockGateway := mocks.NewMockGateway(ctrl)

	invoice := unpaidInvoice(invoiceID)
	invoice.Status = business.InvoiceStatusPartiallyPaid

	now := time.Now()
	mockQuerier.EXPECT().GetInvoiceByID(ctx, invoiceID).Return(invoice, nil)
	mockQuerier.EXPECT().GetPaymentsByInvoice(ctx, invoiceID).Return([]db.Payment{
		{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			AmountCents: 5000,
			Status:      business.PaymentStatusCompleted,
			PaidAt:      pgtype.Timestamptz{Time: now, Valid: true},
		},
		{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			AmountCents: 11900,
			Status:      business.PaymentStatusFailed,
		},
	}, nil)

	status, err := newPaymentService(mockQuerier, mockGateway).GetInvoicePaymentStatus(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, business.InvoiceStatusPartiallyPaid, status.Status)
	assert.Equal(t, int64(5000), status.PaidAmountCents)
	assert.Equal(t, int64(6900), status.RemainingAmountCents)
	assert.Len(t, status.Payments, 2)
}
