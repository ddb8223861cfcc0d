package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awnumar/memguard"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/prateekro/trayme-guard/internal/app"
	"github.com/prateekro/trayme-guard/internal/config"
)

const shutdownTimeout = 15 * time.Second

// RunServer starts the API and metrics servers with graceful shutdown support.
// Before serving it purges items that expired while the process was down and
// re-arms the deletion timers of the rest, then starts the auto-lock check,
// the expiry sweep and the lifecycle signal watcher. Blocks until SIGINT or
// SIGTERM, or until a server fails.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	// Deferred first so enclaves are wiped after every component is closed.
	defer memguard.Purge()
	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	gate, err := container.AccessGate()
	if err != nil {
		return fmt.Errorf("failed to initialize access gate: %w", err)
	}

	store, err := container.SecretStore()
	if err != nil {
		return fmt.Errorf("failed to initialize secret store: %w", err)
	}

	watcher, err := container.LifecycleWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize lifecycle watcher: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	armed, err := store.Restore(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore pending items: %w", err)
	}
	logger.Info("pending items restored", slog.Int("armed", armed))

	autoLock := gate.StartAutoLock(ctx, cfg.AutoLockCheckInterval)
	defer autoLock.Cancel()

	sweep := store.StartSweep(ctx, cfg.ItemSweepInterval)
	defer sweep.Cancel()

	stopWatcher := watcher.Start(ctx)
	defer stopWatcher()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
