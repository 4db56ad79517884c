package repositories

import (
	"context"
	"fmt"

	"tiendamart/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the querying surface shared by *pgxpool.Pool, pgx.Tx and the pgxmock
// pool used in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txKey struct{}

// TxManager opens an all-or-nothing transactional scope. The transaction is
// carried in the context handed to fn; repositories route their queries
// through it. fn returning an error rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgxTxManager struct {
	db DB
}

func NewTxManager(db DB) TxManager {
	return &pgxTxManager{db: db}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after a successful commit

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return common.WrapCommitError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return common.WrapCommitError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// querier returns the transaction bound to ctx, if any, and the pool-level
// database otherwise.
func querier(ctx context.Context, db DB) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
