// Package app runs the server process and tears it down in order.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long teardown may take in total. The
// store handle must get a chance to close even when the HTTP server drags
// out its drain.
const DefaultShutdownTimeout = 15 * time.Second

type shutdownHook struct {
	name string
	fn   func(ctx context.Context) error
}

// App owns the process lifecycle: it runs the serve function until an OS
// signal or an error, then closes the registered resources newest-first, so
// the HTTP server drains before the store it writes to goes away.
type App struct {
	shutdownTimeout time.Duration

	mu    sync.Mutex
	hooks []shutdownHook
}

// New creates an App.
func New() *App {
	return &App{shutdownTimeout: DefaultShutdownTimeout}
}

// AddShutdownHook registers a named teardown step. Hooks run newest-first
// during shutdown; the name shows up in logs and in error wrapping.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, shutdownHook{name: name, fn: fn})
}

// Run executes serve until it returns or until SIGINT/SIGTERM. On a signal
// the shutdown hooks run under a bounded context; an error from serve is
// returned as-is without running the hooks.
func (a *App) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := serve(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Default().Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer shutdownCancel()
		return a.shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hook := a.hooks[i]
		slog.Default().Debug("running shutdown hook", "hook", hook.name)
		if err := hook.fn(ctx); err != nil {
			slog.Default().Warn("shutdown hook failed", "hook", hook.name, "error", err)
			errs = append(errs, fmt.Errorf("%s > %w", hook.name, err))
		}
	}
	return errors.Join(errs...)
}
