package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager: запись идёт через RunMaster, чтение допустимо прямо с пула.
type TxManager interface {
	RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx Transaction) error) error
	Conn() Transaction
}

// Transaction is the subset shared by pgx.Tx and *pgxpool.Pool.
type Transaction interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Transaction = (pgx.Tx)(nil)
	_ Transaction = (*pgxpool.Pool)(nil)
)
