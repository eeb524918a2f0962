package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/logger"
	"github.com/craftside/portal-api/internal/services"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	db     db.Querier
	logger *zap.Logger
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// CommonServicesConfig contains all dependencies needed to create CommonServices
type CommonServicesConfig struct {
	DB     db.Querier
	Logger *zap.Logger
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(config CommonServicesConfig) *CommonServices {
	if config.Logger == nil {
		config.Logger = logger.Log
	}

	return &CommonServices{
		db:     config.DB,
		logger: config.Logger,
	}
}

// HandleError is a helper method to handle errors consistently
func (s *CommonServices) HandleError(c *gin.Context, err error, message string, statusCode int, logger *zap.Logger) {
	if err != nil {
		logger.Error(message,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
	}

	c.JSON(statusCode, ErrorResponse{
		Error: message,
	})
}

// respondDomainError maps the service error taxonomy to HTTP status codes.
// Unrecognized errors become opaque 500s so internals never leak.
func respondDomainError(c *gin.Context, err error, log *zap.Logger) {
	var (
		notFound     *services.NotFoundError
		invalidState *services.InvalidStateError
		dupSession   *services.DuplicateSessionError
		gateway      *services.GatewayError
		sigFailure   *services.WebhookVerificationError
		malformed    *services.MalformedEventError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound.Error()})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: invalidState.Error()})
	case errors.As(err, &dupSession):
		c.JSON(http.StatusConflict, ErrorResponse{Error: dupSession.Error()})
	case errors.As(err, &gateway):
		log.Error("Payment gateway failure",
			zap.String("operation", gateway.Op),
			zap.Error(gateway.Unwrap()),
			zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: gateway.Error()})
	case errors.As(err, &sigFailure):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: sigFailure.Error()})
	case errors.As(err, &malformed):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: malformed.Error()})
	default:
		log.Error("Unhandled error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// parseUUIDParam reads and validates a UUID path parameter. On failure it
// writes the 400 response and returns false.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}
