package stripe

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments"
)

// Ensure Service implements the payments.Gateway interface
var _ payments.Gateway = (*Service)(nil)

// Service implements payments.Gateway for Stripe. Method implementations for
// specific resources are in separate files within this package (customer.go,
// checkout.go, webhook.go).
type Service struct {
	client        *stripe.Client
	webhookSecret string
	logger        *zap.Logger
}

// NewService creates a configured Stripe gateway.
func NewService(apiKey, webhookSecret string, logger *zap.Logger) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe API key not provided in configuration")
	}
	if webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret not provided in configuration")
	}

	return &Service{
		client:        stripe.NewClient(apiKey, nil),
		webhookSecret: webhookSecret,
		logger:        logger,
	}, nil
}

// Name returns the provider name recorded on Payment rows.
func (s *Service) Name() string {
	return "stripe"
}
