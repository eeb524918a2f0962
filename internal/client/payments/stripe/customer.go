package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// EnsureCustomer returns the Stripe customer id for the given email, creating
// the customer if no match exists. Lookup-then-create keeps the operation
// idempotent across repeated payment initiations for the same client.
func (s *Service) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Limit = stripe.Int64(1)

	for customer, err := range s.client.V1Customers.List(ctx, listParams) {
		if err != nil {
			return "", fmt.Errorf("failed to list customers: %w", err)
		}
		s.logger.Debug("Reusing existing Stripe customer",
			zap.String("customer_id", customer.ID),
			zap.String("email", email))
		return customer.ID, nil
	}

	customer, err := s.client.V1Customers.Create(ctx, &stripe.CustomerCreateParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("Created Stripe customer",
		zap.String("customer_id", customer.ID),
		zap.String("email", email))

	return customer.ID, nil
}
