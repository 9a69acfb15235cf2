// Package server wires the Conecta backend: the PostgreSQL table store, the
// S3 report presigner and the gRPC endpoint clients sync through.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/dmitrijs2005/conecta/internal/pgstore"
	"github.com/dmitrijs2005/conecta/internal/server/config"
	"github.com/dmitrijs2005/conecta/internal/server/reports"

	gs "github.com/dmitrijs2005/conecta/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *pgstore.Store
	reports *reports.Service
}

// NewApp connects to the database and applies pending migrations.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	store, err := pgstore.Open(ctx, c.DatabaseDSN, true)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{config: c, logger: logger, store: store, reports: reports.NewService(c)}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewgGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store, app.reports, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Warn(ctx, "closing store", "err", err)
	}
	app.logger.Info(ctx, "Stopped")
}
