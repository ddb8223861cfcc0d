package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

const (
	reasonCancelled   = "authentication cancelled"
	reasonUnavailable = "authentication is not available on this device"
	reasonFailed      = "authentication failed"
)

type platformResult struct {
	ok  bool
	err error
}

// PlatformAuthenticator implements Authenticator over a Platform.
type PlatformAuthenticator struct {
	platform Platform
	logger   *slog.Logger

	mu        sync.Mutex
	lastError string
}

// NewAuthenticator creates an Authenticator backed by platform.
func NewAuthenticator(platform Platform, logger *slog.Logger) *PlatformAuthenticator {
	return &PlatformAuthenticator{
		platform: platform,
		logger:   logger,
	}
}

// Authenticate prompts through the platform. If ctx ends first the attempt
// fails with "authentication cancelled" and the prompt result is discarded.
func (a *PlatformAuthenticator) Authenticate(ctx context.Context, reason string) bool {
	if ctx.Err() != nil {
		a.setLastError(reasonCancelled)
		return false
	}

	available, err := a.platform.CanAuthenticate(ctx)
	if err != nil || !available {
		if err != nil {
			a.logger.Warn("platform authenticator unavailable", slog.Any("error", err))
		}
		a.setLastError(reasonUnavailable)
		return false
	}

	done := make(chan platformResult, 1)
	go func() {
		ok, err := a.platform.Authenticate(ctx, reason)
		done <- platformResult{ok: ok, err: err}
	}()

	select {
	case <-ctx.Done():
		a.setLastError(reasonCancelled)
		return false
	case res := <-done:
		switch {
		case res.err != nil && (errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded)):
			a.setLastError(reasonCancelled)
		case res.err != nil:
			a.setLastError(res.err.Error())
		case !res.ok:
			a.setLastError(reasonFailed)
		default:
			a.setLastError("")
			return true
		}
		return false
	}
}

// IsAvailable reports whether the platform can prompt.
func (a *PlatformAuthenticator) IsAvailable(ctx context.Context) bool {
	ok, err := a.platform.CanAuthenticate(ctx)
	return err == nil && ok
}

// Kind returns the platform's biometry kind.
func (a *PlatformAuthenticator) Kind() authDomain.BiometryKind {
	return a.platform.Kind()
}

// LastError returns the failure reason of the most recent attempt.
func (a *PlatformAuthenticator) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

func (a *PlatformAuthenticator) setLastError(reason string) {
	a.mu.Lock()
	a.lastError = reason
	a.mu.Unlock()
}
