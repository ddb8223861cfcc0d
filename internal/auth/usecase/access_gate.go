package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	authService "github.com/prateekro/trayme-guard/internal/auth/service"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
	"github.com/prateekro/trayme-guard/internal/scheduler"
)

const sensitiveContentReason = "Authenticate to view sensitive content"

// AccessGateConfig holds the initial session settings and attempt throttling.
type AccessGateConfig struct {
	AutoLockMinutes         int
	RequireAuthForSensitive bool

	// AttemptsPerMinute and AttemptBurst throttle authentication prompts.
	// A zero AttemptsPerMinute disables throttling.
	AttemptsPerMinute float64
	AttemptBurst      int
}

// accessGate implements AccessGate.
type accessGate struct {
	authenticator authService.Authenticator
	accessLogs    AccessLogRepository
	sched         scheduler.Scheduler
	limiter       *rate.Limiter
	logger        *slog.Logger

	// authMu serializes prompts. It is never taken while mu is held.
	authMu sync.Mutex

	mu          sync.Mutex
	session     authDomain.Session
	subscribers map[uint64]func(authDomain.Session)
	nextSub     uint64
}

// NewAccessGate creates an AccessGate with an unlocked session whose
// sensitive items still require authentication.
func NewAccessGate(
	authenticator authService.Authenticator,
	accessLogs AccessLogRepository,
	sched scheduler.Scheduler,
	cfg AccessGateConfig,
	logger *slog.Logger,
) (AccessGate, error) {
	if cfg.AutoLockMinutes < 0 {
		return nil, authDomain.ErrInvalidAutoLockMinutes
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.AttemptsPerMinute > 0 {
		burst := cfg.AttemptBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.AttemptsPerMinute/60.0), burst)
	}

	return &accessGate{
		authenticator: authenticator,
		accessLogs:    accessLogs,
		sched:         sched,
		limiter:       limiter,
		logger:        logger,
		session:       authDomain.NewSession(sched.Now(), cfg.AutoLockMinutes, cfg.RequireAuthForSensitive),
		subscribers:   make(map[uint64]func(authDomain.Session)),
	}, nil
}

// Lock locks the session for reason.
func (g *accessGate) Lock(ctx context.Context, reason authDomain.LockReason) {
	g.mu.Lock()
	now := g.sched.Now()
	snapshot, subs := g.lockLocked(reason, now)
	g.mu.Unlock()

	g.afterLock(ctx, snapshot, subs)
}

// CheckInactivity locks an unlocked session whose idle time reached the threshold.
func (g *accessGate) CheckInactivity(ctx context.Context) bool {
	g.mu.Lock()
	now := g.sched.Now()
	if !g.session.AutoLockDue(now) {
		g.mu.Unlock()
		return false
	}
	snapshot, subs := g.lockLocked(authDomain.LockReasonInactivity, now)
	g.mu.Unlock()

	g.afterLock(ctx, snapshot, subs)
	return true
}

// HandleSystemEvent locks the session for sleep and screen-lock events.
func (g *accessGate) HandleSystemEvent(ctx context.Context, event authDomain.SystemEvent) error {
	switch event {
	case authDomain.EventSleep, authDomain.EventScreenLocked:
	default:
		return authDomain.ErrUnknownSystemEvent
	}
	g.Lock(ctx, event.LockReason())
	return nil
}

// Authenticate prompts through the Authenticator and applies the result.
func (g *accessGate) Authenticate(ctx context.Context, reason string) (bool, error) {
	g.authMu.Lock()
	defer g.authMu.Unlock()

	// Access-log writes must land even when the prompt was cancelled.
	logCtx := context.WithoutCancel(ctx)

	if !g.limiter.AllowN(g.sched.Now(), 1) {
		g.recordBestEffort(logCtx, authDomain.NewAccessLog(authDomain.ActionAuthenticate, false, g.sched.Now()))
		g.logger.Warn("authentication attempt throttled")
		return false, authDomain.ErrTooManyAttempts
	}

	epoch := g.LockEpoch()
	ok := g.authenticator.Authenticate(ctx, reason)

	now := g.sched.Now()
	if ok && g.LockEpoch() != epoch {
		g.logger.Info("session locked during authentication prompt; discarding success")
		ok = false
	}

	entry := authDomain.NewAccessLog(authDomain.ActionAuthenticate, ok, now)
	if err := g.accessLogs.Create(logCtx, entry); err != nil {
		if ok {
			return false, apperrors.Wrap(err, "failed to record authentication")
		}
		g.logger.Warn("failed to record declined authentication", slog.Any("error", err))
		return false, nil
	}

	if !ok {
		g.logger.Info("authentication declined", slog.String("reason", g.authenticator.LastError()))
		return false, nil
	}

	// The log write ran without mu; a lock that landed meanwhile wins.
	g.mu.Lock()
	if g.session.LockEpoch != epoch {
		g.mu.Unlock()
		g.logger.Info("session locked while recording authentication; discarding success")
		return false, nil
	}

	g.session.IsUnlocked = true
	g.session.SensitiveItemsLocked = false
	g.session.LastActivityTime = now
	snapshot, subs := g.session, g.subscriberList()
	g.mu.Unlock()

	g.logger.Info("session unlocked", slog.Uint64("lock_epoch", snapshot.LockEpoch))
	notify(snapshot, subs)
	return true, nil
}

// AuthenticateForSensitiveContent skips the prompt when sensitive access is open.
func (g *accessGate) AuthenticateForSensitiveContent(ctx context.Context) (bool, error) {
	if g.Session().SensitiveAccessOpen() {
		return true, nil
	}
	return g.Authenticate(ctx, sensitiveContentReason)
}

// UpdateActivity records activity on an unlocked session.
func (g *accessGate) UpdateActivity() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session.IsUnlocked {
		g.session.LastActivityTime = g.sched.Now()
	}
}

// Session returns a copy of the session.
func (g *accessGate) Session() authDomain.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Subscribe registers a state observer.
func (g *accessGate) Subscribe(fn func(authDomain.Session)) func() {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subscribers[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subscribers, id)
			g.mu.Unlock()
		})
	}
}

// SetAutoLockMinutes updates the inactivity threshold.
func (g *accessGate) SetAutoLockMinutes(minutes int) error {
	if minutes < 0 {
		return authDomain.ErrInvalidAutoLockMinutes
	}

	g.mu.Lock()
	g.session.AutoLockMinutes = minutes
	snapshot, subs := g.session, g.subscriberList()
	g.mu.Unlock()

	notify(snapshot, subs)
	return nil
}

// SetRequireAuthForSensitive updates the sensitive-content policy.
func (g *accessGate) SetRequireAuthForSensitive(require bool) {
	g.mu.Lock()
	g.session.RequireAuthForSensitive = require
	snapshot, subs := g.session, g.subscriberList()
	g.mu.Unlock()

	notify(snapshot, subs)
}

// LockEpoch returns the current lock epoch.
func (g *accessGate) LockEpoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.LockEpoch
}

// LastAuthError returns the Authenticator's last failure reason.
func (g *accessGate) LastAuthError() string {
	return g.authenticator.LastError()
}

// ListAccessLog returns a page of the access log.
func (g *accessGate) ListAccessLog(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error) {
	return g.accessLogs.List(ctx, offset, limit)
}

// StartAutoLock schedules the periodic inactivity check.
func (g *accessGate) StartAutoLock(ctx context.Context, interval time.Duration) scheduler.Job {
	return g.sched.Every(interval, func() {
		if ctx.Err() != nil {
			return
		}
		g.CheckInactivity(ctx)
	})
}

// lockLocked applies a lock. g.mu must be held.
func (g *accessGate) lockLocked(
	reason authDomain.LockReason,
	now time.Time,
) (authDomain.Session, []func(authDomain.Session)) {
	g.session.IsUnlocked = false
	g.session.SensitiveItemsLocked = true
	g.session.LockEpoch++
	g.session.LastLockReason = reason
	g.session.LastLockedAt = now
	return g.session, g.subscriberList()
}

func (g *accessGate) afterLock(ctx context.Context, snapshot authDomain.Session, subs []func(authDomain.Session)) {
	g.logger.Info("session locked",
		slog.String("reason", string(snapshot.LastLockReason)),
		slog.Uint64("lock_epoch", snapshot.LockEpoch),
	)
	entry := authDomain.NewAccessLog(authDomain.LockAction(snapshot.LastLockReason), true, snapshot.LastLockedAt)
	g.recordBestEffort(context.WithoutCancel(ctx), entry)
	notify(snapshot, subs)
}

func (g *accessGate) recordBestEffort(ctx context.Context, entry *authDomain.AccessLog) {
	if err := g.accessLogs.Create(ctx, entry); err != nil {
		g.logger.Warn("failed to record access log entry",
			slog.String("action", entry.Action),
			slog.Any("error", err),
		)
	}
}

// subscriberList copies the observers. g.mu must be held.
func (g *accessGate) subscriberList() []func(authDomain.Session) {
	subs := make([]func(authDomain.Session), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(snapshot authDomain.Session, subs []func(authDomain.Session)) {
	for _, fn := range subs {
		fn(snapshot)
	}
}
