package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/middleware"
	"github.com/craftside/portal-api/internal/services"
	"github.com/craftside/portal-api/internal/types/api/requests"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	common         *CommonServices
	paymentService *services.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a handler with its service dependencies
func NewPaymentHandler(common *CommonServices, paymentService *services.PaymentService, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.L()
	}

	return &PaymentHandler{
		common:         common,
		paymentService: paymentService,
		logger:         logger,
	}
}

// PayInvoice handles POST /api/v1/invoices/:invoice_id/pay
func (h *PaymentHandler) PayInvoice(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "invoice_id")
	if !ok {
		return
	}

	result, err := h.paymentService.ProcessInvoicePayment(c.Request.Context(), invoiceID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPaymentStatus handles GET /api/v1/invoices/:invoice_id/payment-status
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "invoice_id")
	if !ok {
		return
	}

	status, err := h.paymentService.GetInvoicePaymentStatus(c.Request.Context(), invoiceID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, status)
}

// RefundPayment handles POST /api/v1/payments/:payment_id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "payment_id")
	if !ok {
		return
	}

	var req requests.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.common.HandleError(c, err, "invalid request body", http.StatusBadRequest, h.logger)
		return
	}

	result, err := h.paymentService.RefundPayment(c.Request.Context(), paymentID, req.AmountCents, req.Reason)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	// Refunds are admin-only; keep a trace of who issued them.
	if userID, ok := middleware.UserID(c); ok {
		h.logger.Info("Refund issued",
			zap.String("payment_id", paymentID.String()),
			zap.String("issued_by", userID))
	}

	c.JSON(http.StatusOK, result)
}
