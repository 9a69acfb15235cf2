package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/config"
	"github.com/dmitrijs2005/conecta/internal/client/datastore"
	"github.com/dmitrijs2005/conecta/internal/client/localstore"
	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/client/remote/grpcstore"
	"github.com/dmitrijs2005/conecta/internal/client/services"
	"github.com/dmitrijs2005/conecta/internal/idgen"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/dmitrijs2005/conecta/internal/pgstore"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	// ModeLocal means no backend is configured at all.
	ModeLocal Mode = "local"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	local   *localstore.Store
	adapter *remote.Adapter
	store   *datastore.Facade

	auth     *services.AuthService
	profile  *services.ProfileService
	usage    *services.UsageService
	icons    *services.IconService
	settings *services.SettingsService
	users    *services.UserAdminService
	reports  *services.ReportService

	user     models.User
	category string

	mu     sync.Mutex
	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and, when configured, the backend client.
// An unreachable backend is not an error: the app starts offline.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	local, err := localstore.Open(ctx, c.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("local store: %w", err)
	}

	adapter := remote.NewAdapter(openTableStore(ctx, c, logger), c.RemoteTimeout, logger)
	return newApp(c, logger, local, adapter, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, local *localstore.Store, adapter *remote.Adapter, in *bufio.Reader, out io.Writer) *App {
	store := datastore.New(local, adapter, logger)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	a := &App{
		config:   c,
		logger:   logger.With("module", "cli"),
		local:    local,
		adapter:  adapter,
		store:    store,
		auth:     services.NewAuthService(store, logger),
		profile:  services.NewProfileService(store, logger),
		usage:    services.NewUsageService(store, logger),
		icons:    services.NewIconService(store, idgen.New(), logger),
		settings: services.NewSettingsService(store, logger),
		users:    services.NewUserAdminService(store, logger),
		reports:  services.NewReportService(store, c.ReportDir, httpClient, logger),
		reader:   in,
		out:      out,
	}
	a.Mode = modeFor(adapter.State())
	return a
}

// openTableStore builds the backend client for the configured remote mode,
// or returns nil when there is none.
func openTableStore(ctx context.Context, c *config.Config, logger logging.Logger) remote.TableStore {
	if !c.RemoteConfigured() {
		if c.RemoteMode != config.RemoteOff {
			logger.Warn(ctx, "remote credentials missing, running local only", "mode", c.RemoteMode)
		}
		return nil
	}

	switch c.RemoteMode {
	case config.RemotePostgres:
		s, err := pgstore.Open(ctx, c.RemoteDSN, false)
		if err != nil {
			logger.Warn(ctx, "postgres backend unavailable", "err", err)
			return nil
		}
		return s
	case config.RemoteGRPC:
		s, err := grpcstore.New(c.RemoteEndpoint, c.AnonKey)
		if err != nil {
			logger.Warn(ctx, "grpc backend unavailable", "err", err)
			return nil
		}
		return s
	}
	return nil
}

func modeFor(s remote.State) Mode {
	switch s {
	case remote.StateReady:
		return ModeOnline
	case remote.StateUnreachable:
		return ModeOffline
	}
	return ModeLocal
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(ctx, fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// checkBackend checks the backend once and updates the mode.
func (a *App) checkBackend(ctx context.Context) {
	if a.adapter.State() == remote.StateUnconfigured {
		return
	}
	_ = a.adapter.Check(ctx)
	a.setMode(ctx, modeFor(a.adapter.State()))
}

// StartOnlineStatusWatcher checks the backend every interval until ctx is
// done. It returns at once when no backend is configured.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if a.adapter.State() == remote.StateUnconfigured || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkBackend(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.adapter.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing backend", "err", err)
	}
	if err := a.local.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing local store", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.user.ID != ""
}

func (a *App) isAdmin() bool {
	return a.isLoggedIn() && a.user.IsAdmin()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
