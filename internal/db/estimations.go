package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getEstimation = `
SELECT id, project_id, title, total_hours, hourly_rate_cents, total_cost_cents,
    tax_rate, cost_breakdown, status, created_at, updated_at
FROM estimations
WHERE id = $1
`

func (q *Queries) GetEstimation(ctx context.Context, id uuid.UUID) (Estimation, error) {
	var e Estimation
	err := q.db.QueryRow(ctx, getEstimation, id).Scan(
		&e.ID,
		&e.ProjectID,
		&e.Title,
		&e.TotalHours,
		&e.HourlyRateCents,
		&e.TotalCostCents,
		&e.TaxRate,
		&e.CostBreakdown,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// getEstimationClient resolves the owning client of an estimation through its
// project, for the identity snapshot copied onto invoices.
const getEstimationClient = `
SELECT u.id, u.name, u.email, u.address
FROM estimations e
JOIN projects p ON p.id = e.project_id
JOIN users u ON u.id = p.user_id
WHERE e.id = $1
`

type GetEstimationClientRow struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Address pgtype.Text
}

func (q *Queries) GetEstimationClient(ctx context.Context, estimationID uuid.UUID) (GetEstimationClientRow, error) {
	var r GetEstimationClientRow
	err := q.db.QueryRow(ctx, getEstimationClient, estimationID).Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&r.Address,
	)
	return r, err
}

const updateEstimationStatus = `
UPDATE estimations
SET status = $2,
    updated_at = now()
WHERE id = $1
RETURNING id, project_id, title, total_hours, hourly_rate_cents, total_cost_cents,
    tax_rate, cost_breakdown, status, created_at, updated_at
`

type UpdateEstimationStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateEstimationStatus(ctx context.Context, arg UpdateEstimationStatusParams) (Estimation, error) {
	var e Estimation
	err := q.db.QueryRow(ctx, updateEstimationStatus, arg.ID, arg.Status).Scan(
		&e.ID,
		&e.ProjectID,
		&e.Title,
		&e.TotalHours,
		&e.HourlyRateCents,
		&e.TotalCostCents,
		&e.TaxRate,
		&e.CostBreakdown,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}
