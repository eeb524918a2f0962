package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/types/business"
)

// EstimationService owns estimation status transitions. Invoicing an
// estimation is InvoiceService's job; this service gates which estimations
// become eligible for it.
type EstimationService struct {
	queries db.Querier
	logger  *zap.Logger
}

func NewEstimationService(queries db.Querier, logger *zap.Logger) *EstimationService {
	return &EstimationService{
		queries: queries,
		logger:  logger,
	}
}

// ApproveEstimation moves a draft or sent estimation to approved. Approved is
// idempotent; rejected estimations stay rejected.
func (s *EstimationService) ApproveEstimation(ctx context.Context, estimationID uuid.UUID) (*db.Estimation, error) {
	estimation, err := s.queries.GetEstimation(ctx, estimationID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "estimation", ID: estimationID.String()}
		}
		return nil, fmt.Errorf("failed to get estimation: %w", err)
	}

	switch estimation.Status {
	case business.EstimationStatusApproved:
		return &estimation, nil
	case business.EstimationStatusDraft, business.EstimationStatusSent:
	default:
		return nil, &InvalidStateError{Message: fmt.Sprintf("estimation in status %q cannot be approved", estimation.Status)}
	}

	updated, err := s.queries.UpdateEstimationStatus(ctx, db.UpdateEstimationStatusParams{
		ID:     estimationID,
		Status: business.EstimationStatusApproved,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to approve estimation: %w", err)
	}

	s.logger.Info("Estimation approved",
		zap.String("estimation_id", estimationID.String()),
		zap.String("from", estimation.Status))

	return &updated, nil
}
