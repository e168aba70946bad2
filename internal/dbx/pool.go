// Package dbx owns all database access: a bounded connection pool and the
// executor through which every statement runs. Repositories never touch a
// connection directly; they go through Executor, which leases a connection
// for exactly one statement and returns it on every exit path.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DefaultMaxConns    = 10
	DefaultConnTimeout = 5 * time.Second
	DefaultIdleTimeout = 5 * time.Minute
)

// Config bounds the pool.
type Config struct {
	MaxConns    int
	ConnTimeout time.Duration
	IdleTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
	if c.ConnTimeout <= 0 {
		c.ConnTimeout = DefaultConnTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	return c
}

// Pool is a bounded set of live connections to the backing store.
type Pool struct {
	db          *sql.DB
	connTimeout time.Duration
}

// Open connects to PostgreSQL via the pgx stdlib driver and applies the pool
// bounds from cfg. The store is not contacted until the first acquisition;
// use Probe to verify liveness.
func Open(dsn string, cfg Config) (*Pool, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return NewPool(db, cfg), nil
}

// NewPool wraps an existing database handle. Used by Open and by tests that
// substitute a fake store.
func NewPool(db *sql.DB, cfg Config) *Pool {
	cfg = cfg.withDefaults()
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxIdleTime(cfg.IdleTimeout)
	return &Pool{db: db, connTimeout: cfg.ConnTimeout}
}

// DB exposes the underlying handle for collaborators that manage their own
// statements, such as the migration runner.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// acquire leases one connection, waiting at most the configured connect
// timeout for the pool to have a free slot. Failures here mean the store is
// unreachable or the pool is exhausted and are reported as ErrorUnavailable,
// never as a statement failure.
func (p *Pool) acquire(ctx context.Context) (*sql.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, p.connTimeout)
	defer cancel()

	conn, err := p.db.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	return conn, nil
}

// release returns a leased connection to the pool. Safe to call more than
// once: a second close reports sql.ErrConnDone, which is ignored.
func release(conn *sql.Conn) {
	_ = conn.Close()
}

// Probe performs one lightweight round trip to verify the store is alive.
// Used for startup gating and health reporting.
func (p *Pool) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.connTimeout)
	defer cancel()

	var one int
	if err := p.db.QueryRowContext(probeCtx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	return nil
}

// Close shuts the pool down. The lifecycle controller must not call this
// while queries may still be in flight.
func (p *Pool) Close() error {
	return p.db.Close()
}
