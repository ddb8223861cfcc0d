package usecase

import (
	"context"
	"time"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/metrics"
	"github.com/prateekro/trayme-guard/internal/scheduler"
)

// accessGateWithMetrics decorates AccessGate with metrics instrumentation.
type accessGateWithMetrics struct {
	next    AccessGate
	metrics metrics.BusinessMetrics
}

// NewAccessGateWithMetrics wraps an AccessGate with metrics recording.
func NewAccessGateWithMetrics(gate AccessGate, m metrics.BusinessMetrics) AccessGate {
	return &accessGateWithMetrics{
		next:    gate,
		metrics: m,
	}
}

func (g *accessGateWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	g.metrics.RecordOperation(ctx, "auth", operation, status)
	g.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Lock records metrics for lock transitions.
func (g *accessGateWithMetrics) Lock(ctx context.Context, reason authDomain.LockReason) {
	start := time.Now()
	g.next.Lock(ctx, reason)
	g.record(ctx, "session_lock", start, "success")
}

// CheckInactivity records metrics only when the check locked the session.
func (g *accessGateWithMetrics) CheckInactivity(ctx context.Context) bool {
	start := time.Now()
	locked := g.next.CheckInactivity(ctx)
	if locked {
		g.record(ctx, "session_auto_lock", start, "success")
	}
	return locked
}

// HandleSystemEvent records metrics for lifecycle events.
func (g *accessGateWithMetrics) HandleSystemEvent(ctx context.Context, event authDomain.SystemEvent) error {
	start := time.Now()
	err := g.next.HandleSystemEvent(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.record(ctx, "session_system_event", start, status)
	return err
}

// Authenticate records metrics for authentication attempts. A declined
// prompt counts as "declined".
func (g *accessGateWithMetrics) Authenticate(ctx context.Context, reason string) (bool, error) {
	start := time.Now()
	ok, err := g.next.Authenticate(ctx, reason)
	g.record(ctx, "authenticate", start, authStatus(ok, err))
	return ok, err
}

// AuthenticateForSensitiveContent records metrics for sensitive-content checks.
func (g *accessGateWithMetrics) AuthenticateForSensitiveContent(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := g.next.AuthenticateForSensitiveContent(ctx)
	g.record(ctx, "authenticate_sensitive", start, authStatus(ok, err))
	return ok, err
}

func (g *accessGateWithMetrics) UpdateActivity() {
	g.next.UpdateActivity()
}

func (g *accessGateWithMetrics) Session() authDomain.Session {
	return g.next.Session()
}

func (g *accessGateWithMetrics) Subscribe(fn func(authDomain.Session)) func() {
	return g.next.Subscribe(fn)
}

func (g *accessGateWithMetrics) SetAutoLockMinutes(minutes int) error {
	return g.next.SetAutoLockMinutes(minutes)
}

func (g *accessGateWithMetrics) SetRequireAuthForSensitive(require bool) {
	g.next.SetRequireAuthForSensitive(require)
}

func (g *accessGateWithMetrics) LockEpoch() uint64 {
	return g.next.LockEpoch()
}

func (g *accessGateWithMetrics) LastAuthError() string {
	return g.next.LastAuthError()
}

// ListAccessLog records metrics for access-log listing.
func (g *accessGateWithMetrics) ListAccessLog(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AccessLog, error) {
	start := time.Now()
	entries, err := g.next.ListAccessLog(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.record(ctx, "access_log_list", start, status)
	return entries, err
}

// StartAutoLock starts the inner gate's check so the decorator is not re-entered.
func (g *accessGateWithMetrics) StartAutoLock(ctx context.Context, interval time.Duration) scheduler.Job {
	return g.next.StartAutoLock(ctx, interval)
}

func authStatus(ok bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case !ok:
		return "declined"
	default:
		return "success"
	}
}
