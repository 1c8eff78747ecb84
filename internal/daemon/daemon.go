package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/api"
	"github.com/cerditos-farm/cerditos/internal/app/finance"
	"github.com/cerditos-farm/cerditos/internal/app/herd"
	"github.com/cerditos-farm/cerditos/internal/app/records"
	"github.com/cerditos-farm/cerditos/internal/app/session"
	"github.com/cerditos-farm/cerditos/internal/infra/sqlite"
)

// ShutdownTimeout bounds how long in-flight requests may finish on stop.
const ShutdownTimeout = 10 * time.Second

// Daemon owns the store and the services built on it.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Records  *records.Service
	Herd     *herd.Service
	Finance  *finance.Service
	Sessions *session.Manager

	log *zap.Logger
}

// New opens the store and wires the services.
func New(cfg Config, log *zap.Logger) (*Daemon, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &Daemon{
		Config:   cfg,
		DB:       db,
		Records:  records.NewService(db, db, log.Named("records")),
		Herd:     herd.NewService(db, db, log.Named("herd")),
		Finance:  finance.NewService(db, cfg.IRR(), log.Named("finance")),
		Sessions: session.NewManager(cfg.Auth.Password, cfg.SessionTTL(), log.Named("session")),
		log:      log,
	}
	return d, nil
}

// Close releases the store.
func (d *Daemon) Close() error { return d.DB.Close() }

// Handler builds the HTTP API over the daemon's services.
func (d *Daemon) Handler() http.Handler {
	srv := api.NewServer(d.Records, d.Herd, d.Finance, d.Sessions, d.log.Named("http"))
	srv.SetHealthCheck(d.DB.Ping)
	if d.Config.Metrics.Enabled {
		srv.EnableMetrics()
	}
	return srv.Handler()
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (d *Daemon) Serve(ctx context.Context) error {
	if d.Sessions.DemoMode() {
		d.log.Warn("no password configured; running in open demo mode")
	}

	httpSrv := &http.Server{
		Addr:              d.Config.Addr(),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.log.Info("listening",
			zap.String("addr", httpSrv.Addr),
			zap.String("db", d.DB.Path()),
			zap.Bool("metrics", d.Config.Metrics.Enabled),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	d.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
