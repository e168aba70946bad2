// Package server wires the application together and controls its lifecycle:
// startup probing with retry, migrations, serving, and graceful shutdown
// that drains in-flight work before the pool closes.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/authvault/internal/dbx"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/accounts"
	"github.com/dmitrijs2005/authvault/internal/server/config"
	"github.com/dmitrijs2005/authvault/internal/server/httpapi"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/authvault/internal/server/migrations"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	pool       *dbx.Pool
	accounts   *accounts.Service
	httpServer *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	pool, err := dbx.Open(c.DSN(), dbx.Config{
		MaxConns:    c.PoolMaxConns,
		ConnTimeout: c.PoolConnTimeout,
		IdleTimeout: c.PoolIdleTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	exec := dbx.NewExecutor(pool)
	repo := accounts.NewPostgresRepository(exec)
	as := accounts.NewService(repo, logger, c)
	hs := httpapi.NewServer(c.ServerAddress, logger, as, pool, c.SecretKey, c.ShutdownTimeout)

	return &App{config: c, logger: logger, pool: pool, accounts: as, httpServer: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// waitForStore probes the pool with exponential backoff until the store
// answers or the retry budget runs out. Serving never starts against a store
// that was never reachable.
func (app *App) waitForStore(ctx context.Context) error {
	backoff := retry.WithMaxRetries(app.config.StartupMaxRetries, retry.NewExponential(time.Second))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := app.pool.Probe(ctx); err != nil {
			app.logger.Warn(ctx, "store not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, app.pool.DB(), "."); err != nil {
		return err
	}

	return nil
}

// Run blocks until the context is cancelled or a fatal startup error occurs.
// Shutdown order: the HTTP server stops accepting and drains first, the pool
// closes last.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.waitForStore(ctx); err != nil {
		return fmt.Errorf("store unreachable after retries: %w", err)
	}

	if err := app.runMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	var wg sync.WaitGroup
	var serveErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			serveErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	app.logger.Info(ctx, "Closing connection pool...")
	if err := app.pool.Close(); err != nil {
		app.logger.Error(ctx, "pool close error", "error", err)
	}

	return serveErr
}
