package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/services"
	"github.com/craftside/portal-api/internal/types/api/requests"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	common            *CommonServices
	invoiceService    *services.InvoiceService
	estimationService *services.EstimationService
	logger            *zap.Logger
}

// NewInvoiceHandler creates a handler with its service dependencies
func NewInvoiceHandler(
	common *CommonServices,
	invoiceService *services.InvoiceService,
	estimationService *services.EstimationService,
	logger *zap.Logger,
) *InvoiceHandler {
	if logger == nil {
		logger = zap.L()
	}

	return &InvoiceHandler{
		common:            common,
		invoiceService:    invoiceService,
		estimationService: estimationService,
		logger:            logger,
	}
}

// ApproveEstimation handles POST /api/v1/estimations/:estimation_id/approve
func (h *InvoiceHandler) ApproveEstimation(c *gin.Context) {
	estimationID, ok := parseUUIDParam(c, "estimation_id")
	if !ok {
		return
	}

	estimation, err := h.estimationService.ApproveEstimation(c.Request.Context(), estimationID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     estimation.ID,
		"status": estimation.Status,
	})
}

// CreateInvoiceFromEstimation handles POST /api/v1/estimations/:estimation_id/invoice
func (h *InvoiceHandler) CreateInvoiceFromEstimation(c *gin.Context) {
	estimationID, ok := parseUUIDParam(c, "estimation_id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoiceFromEstimation(c.Request.Context(), estimationID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /api/v1/invoices/:invoice_id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "invoice_id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoiceDetails(c.Request.Context(), invoiceID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// ListProjectInvoices handles GET /api/v1/projects/:project_id/invoices
func (h *InvoiceHandler) ListProjectInvoices(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "project_id")
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListInvoicesByProject(c.Request.Context(), projectID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// UpdateInvoiceStatus handles PATCH /api/v1/invoices/:invoice_id/status
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "invoice_id")
	if !ok {
		return
	}

	var req requests.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.common.HandleError(c, err, "invalid request body", http.StatusBadRequest, h.logger)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), invoiceID, req.Status)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// GetInvoiceStats handles GET /api/v1/invoices/stats
func (h *InvoiceHandler) GetInvoiceStats(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid project_id format"})
			return
		}
		projectID = &id
	}

	stats, err := h.invoiceService.GetInvoiceStats(c.Request.Context(), projectID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MarkOverdueInvoices handles POST /api/v1/invoices/mark-overdue
func (h *InvoiceHandler) MarkOverdueInvoices(c *gin.Context) {
	count, err := h.invoiceService.MarkOverdueInvoices(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_overdue": count})
}
