// Package lifecycle turns OS notifications into access gate system events.
// A sleep hook or screen-lock listener signals the process: SIGUSR1 means the
// machine is about to sleep, SIGUSR2 means the screen was locked.
package lifecycle

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

// EventHandler receives system events. The access gate implements it.
type EventHandler interface {
	HandleSystemEvent(ctx context.Context, event authDomain.SystemEvent) error
}

// Watcher forwards mapped signals to an EventHandler.
type Watcher struct {
	handler EventHandler
	events  map[os.Signal]authDomain.SystemEvent
	logger  *slog.Logger
}

// NewWatcher creates a Watcher using the platform's default signal mapping.
func NewWatcher(handler EventHandler, logger *slog.Logger) *Watcher {
	return NewWatcherWithSignals(handler, DefaultSignals(), logger)
}

// NewWatcherWithSignals creates a Watcher with an explicit signal mapping.
func NewWatcherWithSignals(
	handler EventHandler,
	events map[os.Signal]authDomain.SystemEvent,
	logger *slog.Logger,
) *Watcher {
	return &Watcher{handler: handler, events: events, logger: logger}
}

// Start subscribes to the mapped signals before returning and handles them
// until ctx is done or stop is called. stop waits for the handler loop to exit.
func (w *Watcher) Start(ctx context.Context) (stop func()) {
	if len(w.events) == 0 {
		return func() {}
	}

	sigCh := make(chan os.Signal, 4)
	signals := make([]os.Signal, 0, len(w.events))
	for sig := range w.events {
		signals = append(signals, sig)
	}
	signal.Notify(sigCh, signals...)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				w.handle(ctx, sig)
			}
		}
	}()

	w.logger.Info("listening for lifecycle signals", slog.Int("count", len(signals)))

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			cancel()
			wg.Wait()
		})
	}
}

func (w *Watcher) handle(ctx context.Context, sig os.Signal) {
	event, ok := w.events[sig]
	if !ok {
		return
	}

	w.logger.Info("lifecycle event received",
		slog.String("signal", sig.String()),
		slog.String("event", string(event)),
	)
	if err := w.handler.HandleSystemEvent(ctx, event); err != nil {
		w.logger.Error("failed to handle lifecycle event",
			slog.String("event", string(event)),
			slog.Any("error", err),
		)
	}
}
