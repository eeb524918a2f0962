package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/mocks"
	"github.com/craftside/portal-api/internal/services"
	"github.com/craftside/portal-api/internal/types/business"
)

func TestEstimationService_ApproveEstimation(t *testing.T) {
	ctx := context.Background()
	estimationID := uuid.New()

	tests := []struct {
		name        string
		status      string
		setupUpdate bool
		wantStatus  string
		wantErr     bool
	}{
		{name: "approves a sent estimation", status: business.EstimationStatusSent, setupUpdate: true, wantStatus: business.EstimationStatusApproved},
		{name: "approves a draft estimation", status: business.EstimationStatusDraft, setupUpdate: true, wantStatus: business.EstimationStatusApproved},
		{name: "approving twice is idempotent", status: business.EstimationStatusApproved, wantStatus: business.EstimationStatusApproved},
		{name: "rejected estimations stay rejected", status: business.EstimationStatusRejected, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQuerier := mocks.NewMockQuerier(ctrl)
			mockQuerier.EXPECT().GetEstimation(ctx, estimationID).Return(db.Estimation{
				ID:     estimationID,
				Status: tt.status,
			}, nil)
			if tt.setupUpdate {
				mockQuerier.EXPECT().UpdateEstimationStatus(ctx, db.UpdateEstimationStatusParams{
					ID:     estimationID,
					Status: business.EstimationStatusApproved,
				}).Return(db.Estimation{ID: estimationID, Status: business.EstimationStatusApproved}, nil)
			}

			svc := services.NewEstimationService(mockQuerier, zap.NewNop())
			estimation, err := svc.ApproveEstimation(ctx, estimationID)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, services.IsInvalidState(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, estimation.Status)
		})
	}
}

func TestEstimationService_ApproveEstimation_NotFound(t *testing.T) {
	ctx := context.Background()
	estimationID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetEstimation(ctx, estimationID).Return(db.Estimation{}, pgx.ErrNoRows)

	svc := services.NewEstimationService(mockQuerier, zap.NewNop())
	_, err := svc.ApproveEstimation(ctx, estimationID)
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}
