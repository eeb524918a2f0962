package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs a function against a transactional Querier. Services use it
// for work that must commit atomically (invoice numbering plus persistence,
// payment rows plus balance-driven status changes); tests substitute a fake
// that hands the callback their mock Querier.
type TxManager interface {
	WithTx(ctx context.Context, fn func(Querier) error) error
}

// PoolTxManager is the pgxpool-backed TxManager used in production.
type PoolTxManager struct {
	pool *pgxpool.Pool
}

func NewPoolTxManager(pool *pgxpool.Pool) *PoolTxManager {
	return &PoolTxManager{pool: pool}
}

func (m *PoolTxManager) WithTx(ctx context.Context, fn func(Querier) error) error {
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(New(tx))
	})
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsNotFound reports whether err is pgx's no-rows marker.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
