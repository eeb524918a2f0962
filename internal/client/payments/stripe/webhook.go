package stripe

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments"
)

// VerifyAndParseWebhook validates the event signature and maps the payload to
// a neutral payments.WebhookEvent. Signature failures return an event with
// SignatureValid=false alongside the error; callers must reject the delivery
// outright so Stripe does not consider it received.
func (s *Service) VerifyAndParseWebhook(payload []byte, signatureHeader string) (payments.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
	if err != nil {
		s.logger.Error("Webhook signature verification failed", zap.Error(err))
		return payments.WebhookEvent{SignatureValid: false, RawData: payload},
			fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Received Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	parsed := payments.WebhookEvent{
		Provider:          s.Name(),
		ProviderEventID:   event.ID,
		ProviderEventType: string(event.Type),
		SignatureValid:    true,
		RawData:           payload,
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded,
		stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return parsed, fmt.Errorf("failed to unmarshal %s data: %w", event.Type, err)
		}
		if event.Type == stripe.EventTypePaymentIntentSucceeded {
			parsed.Kind = payments.EventPaymentSucceeded
		} else {
			parsed.Kind = payments.EventPaymentFailed
		}
		parsed.PaymentIntentID = intent.ID
		parsed.InvoiceID = intent.Metadata[metadataInvoiceID]

	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return parsed, fmt.Errorf("failed to unmarshal %s data: %w", event.Type, err)
		}
		parsed.Kind = payments.EventCheckoutCompleted
		parsed.CheckoutSessionID = session.ID
		parsed.InvoiceID = session.Metadata[metadataInvoiceID]
		if session.PaymentIntent != nil {
			parsed.PaymentIntentID = session.PaymentIntent.ID
		}

	default:
		// Unknown event kinds are logged and acknowledged rather than
		// silently dropped; the orchestrator treats them as no-ops.
		s.logger.Warn("Unhandled Stripe webhook event type",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
		parsed.Kind = payments.EventUnknown
	}

	return parsed, nil
}
