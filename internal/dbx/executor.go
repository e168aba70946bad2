package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for a unique constraint
// failure.
const pgUniqueViolation = "23505"

// Row is the single-row scan target passed to QueryRow callbacks. Both
// *sql.Row and *sql.Rows satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Executor is the single chokepoint for persistent-state access. Every method
// acquires a pooled connection scoped to the call, binds parameters
// positionally, and releases the connection on every exit path. No caller
// ever holds a connection across two Executor calls.
type Executor struct {
	pool *Pool
}

func NewExecutor(pool *Pool) *Executor {
	return &Executor{pool: pool}
}

// QueryRow runs a statement expected to produce at most one row and hands the
// row to scan. A missing row surfaces as common.ErrorNotFound.
func (e *Executor) QueryRow(ctx context.Context, scan func(Row) error, query string, args ...any) error {
	conn, err := e.pool.acquire(ctx)
	if err != nil {
		return err
	}
	defer release(conn)

	if err := scan(conn.QueryRowContext(ctx, query, args...)); err != nil {
		return classify(err)
	}
	return nil
}

// Query runs a multi-row statement and hands the open row set to scan. The
// row set is closed before the connection is released regardless of how scan
// returns.
func (e *Executor) Query(ctx context.Context, scan func(*sql.Rows) error, query string, args ...any) error {
	conn, err := e.pool.acquire(ctx)
	if err != nil {
		return err
	}
	defer release(conn)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	if err := scan(rows); err != nil {
		return classify(err)
	}
	return classify(rows.Err())
}

// Exec runs a statement that returns no rows and reports how many rows it
// affected.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	conn, err := e.pool.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release(conn)

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// classify converts storage-layer failures into the package's sentinel
// errors so that callers can decide the externally visible outcome with
// errors.Is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	return fmt.Errorf("error performing sql request: %w", err)
}
