package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments"
	"github.com/craftside/portal-api/internal/services"
)

// maxWebhookBodyBytes caps webhook payload reads. Stripe events are small;
// anything larger is not a legitimate delivery.
const maxWebhookBodyBytes = 1 << 16

// WebhookHandler receives payment gateway webhook deliveries
type WebhookHandler struct {
	common         *CommonServices
	gateway        payments.Gateway
	paymentService *services.PaymentService
	logger         *zap.Logger
}

// NewWebhookHandler creates a handler with its service dependencies
func NewWebhookHandler(common *CommonServices, gateway payments.Gateway, paymentService *services.PaymentService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.L()
	}

	return &WebhookHandler{
		common:         common,
		gateway:        gateway,
		paymentService: paymentService,
		logger:         logger,
	}
}

// HandleStripeWebhook handles POST /webhooks/stripe. The raw body is needed
// for signature verification, so no binding middleware may touch it first.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.common.HandleError(c, err, "failed to read request body", http.StatusBadRequest, h.logger)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	event, err := h.gateway.VerifyAndParseWebhook(payload, signature)
	if err != nil {
		h.logger.Warn("Webhook signature verification failed",
			zap.String("event_id", event.ProviderEventID),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "webhook signature verification failed"})
		return
	}

	result, err := h.paymentService.ProcessWebhookEvent(c.Request.Context(), event)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed":  result.Processed,
		"invoice_id": result.InvoiceID,
		"message":    result.Message,
	})
}
