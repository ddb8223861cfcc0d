package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	authMocks "github.com/prateekro/trayme-guard/internal/auth/service/mocks"
	"github.com/prateekro/trayme-guard/internal/auth/usecase"
	usecaseMocks "github.com/prateekro/trayme-guard/internal/auth/usecase/mocks"
	"github.com/prateekro/trayme-guard/internal/scheduler"
	"github.com/prateekro/trayme-guard/internal/testutil"
)

type gateFixture struct {
	gate   usecase.AccessGate
	clock  *clockwork.FakeClock
	auth   *authMocks.MockAuthenticator
	logs   *usecaseMocks.MockAccessLogRepository
	mu     sync.Mutex
	events []*authDomain.AccessLog
}

func (f *gateFixture) recorded() []*authDomain.AccessLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*authDomain.AccessLog(nil), f.events...)
}

func newGateFixture(t *testing.T, cfg usecase.AccessGateConfig) *gateFixture {
	t.Helper()

	f := &gateFixture{
		clock: clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		auth:  &authMocks.MockAuthenticator{},
		logs:  &usecaseMocks.MockAccessLogRepository{},
	}
	f.logs.On("Create", mock.Anything, mock.AnythingOfType("*domain.AccessLog")).
		Run(func(args mock.Arguments) {
			f.mu.Lock()
			f.events = append(f.events, args.Get(1).(*authDomain.AccessLog))
			f.mu.Unlock()
		}).
		Return(nil).
		Maybe()
	f.auth.On("LastError").Return("authentication failed").Maybe()

	gate, err := usecase.NewAccessGate(f.auth, f.logs, scheduler.New(f.clock), cfg, testutil.DiscardLogger())
	require.NoError(t, err)
	f.gate = gate
	return f
}

func defaultGateConfig() usecase.AccessGateConfig {
	return usecase.AccessGateConfig{
		AutoLockMinutes:         5,
		RequireAuthForSensitive: true,
	}
}

func TestNewAccessGate(t *testing.T) {
	t.Run("initial session", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())

		session := f.gate.Session()
		assert.True(t, session.IsUnlocked)
		assert.True(t, session.SensitiveItemsLocked)
		assert.Equal(t, 5, session.AutoLockMinutes)
		assert.True(t, session.RequireAuthForSensitive)
		assert.Equal(t, f.clock.Now(), session.LastActivityTime)
		assert.Zero(t, f.gate.LockEpoch())
	})

	t.Run("rejects negative auto-lock", func(t *testing.T) {
		_, err := usecase.NewAccessGate(
			&authMocks.MockAuthenticator{},
			&usecaseMocks.MockAccessLogRepository{},
			scheduler.New(clockwork.NewFakeClock()),
			usecase.AccessGateConfig{AutoLockMinutes: -1},
			testutil.DiscardLogger(),
		)
		assert.ErrorIs(t, err, authDomain.ErrInvalidAutoLockMinutes)
	})
}

func TestAccessGate_Lock(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t, defaultGateConfig())

	var seen []authDomain.Session
	unsubscribe := f.gate.Subscribe(func(s authDomain.Session) { seen = append(seen, s) })

	f.gate.Lock(ctx, authDomain.LockReasonManual)

	session := f.gate.Session()
	assert.False(t, session.IsUnlocked)
	assert.True(t, session.SensitiveItemsLocked)
	assert.Equal(t, uint64(1), session.LockEpoch)
	assert.Equal(t, authDomain.LockReasonManual, session.LastLockReason)
	assert.Equal(t, f.clock.Now(), session.LastLockedAt)

	require.Len(t, seen, 1)
	assert.Equal(t, authDomain.StateLocked, seen[0].State())

	events := f.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "lock:manual", events[0].Action)
	assert.True(t, events[0].Success)

	unsubscribe()
	unsubscribe()
	f.gate.Lock(ctx, authDomain.LockReasonManual)
	assert.Len(t, seen, 1)
	assert.Equal(t, uint64(2), f.gate.LockEpoch())
}

func TestAccessGate_LockSurvivesLogFailure(t *testing.T) {
	logs := &usecaseMocks.MockAccessLogRepository{}
	logs.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	gate, err := usecase.NewAccessGate(
		&authMocks.MockAuthenticator{},
		logs,
		scheduler.New(clockwork.NewFakeClock()),
		defaultGateConfig(),
		testutil.DiscardLogger(),
	)
	require.NoError(t, err)

	gate.Lock(context.Background(), authDomain.LockReasonSleep)
	assert.False(t, gate.Session().IsUnlocked)
}

func TestAccessGate_HandleSystemEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		event  authDomain.SystemEvent
		reason authDomain.LockReason
	}{
		{authDomain.EventSleep, authDomain.LockReasonSleep},
		{authDomain.EventScreenLocked, authDomain.LockReasonScreenLocked},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			f := newGateFixture(t, defaultGateConfig())

			require.NoError(t, f.gate.HandleSystemEvent(ctx, tt.event))

			session := f.gate.Session()
			assert.False(t, session.IsUnlocked)
			assert.Equal(t, tt.reason, session.LastLockReason)
			assert.Equal(t, authDomain.LockAction(tt.reason), f.recorded()[0].Action)
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())

		err := f.gate.HandleSystemEvent(ctx, authDomain.SystemEvent("resume"))
		assert.ErrorIs(t, err, authDomain.ErrUnknownSystemEvent)
		assert.True(t, f.gate.Session().IsUnlocked)
	})
}

func TestAccessGate_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("success unlocks and opens sensitive items", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())
		f.gate.Lock(ctx, authDomain.LockReasonManual)
		f.clock.Advance(10 * time.Minute)
		f.auth.On("Authenticate", ctx, "unlock").Return(true).Once()

		ok, err := f.gate.Authenticate(ctx, "unlock")
		require.NoError(t, err)
		assert.True(t, ok)

		session := f.gate.Session()
		assert.True(t, session.IsUnlocked)
		assert.False(t, session.SensitiveItemsLocked)
		assert.Equal(t, f.clock.Now(), session.LastActivityTime)

		events := f.recorded()
		require.Len(t, events, 2)
		assert.Equal(t, authDomain.ActionAuthenticate, events[1].Action)
		assert.True(t, events[1].Success)
	})

	t.Run("declined keeps the session locked", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())
		f.gate.Lock(ctx, authDomain.LockReasonManual)
		f.auth.On("Authenticate", ctx, "unlock").Return(false).Once()

		ok, err := f.gate.Authenticate(ctx, "unlock")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, f.gate.Session().IsUnlocked)
		assert.Equal(t, "authentication failed", f.gate.LastAuthError())

		events := f.recorded()
		require.Len(t, events, 2)
		assert.False(t, events[1].Success)
	})

	t.Run("unrecorded success fails closed", func(t *testing.T) {
		auth := &authMocks.MockAuthenticator{}
		auth.On("Authenticate", ctx, "unlock").Return(true)
		logs := &usecaseMocks.MockAccessLogRepository{}
		logs.On("Create", mock.Anything, mock.MatchedBy(func(e *authDomain.AccessLog) bool {
			return e.Action != authDomain.ActionAuthenticate
		})).Return(nil)
		logs.On("Create", mock.Anything, mock.MatchedBy(func(e *authDomain.AccessLog) bool {
			return e.Action == authDomain.ActionAuthenticate
		})).Return(errors.New("database is locked"))

		gate, err := usecase.NewAccessGate(
			auth, logs, scheduler.New(clockwork.NewFakeClock()), defaultGateConfig(), testutil.DiscardLogger(),
		)
		require.NoError(t, err)
		gate.Lock(ctx, authDomain.LockReasonManual)

		ok, err := gate.Authenticate(ctx, "unlock")
		assert.False(t, ok)
		assert.Error(t, err)
		assert.False(t, gate.Session().IsUnlocked)
	})

	t.Run("lock during the prompt voids success", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())
		f.gate.Lock(ctx, authDomain.LockReasonManual)
		f.auth.On("Authenticate", ctx, "unlock").
			Run(func(mock.Arguments) {
				f.gate.Lock(ctx, authDomain.LockReasonScreenLocked)
			}).
			Return(true).
			Once()

		ok, err := f.gate.Authenticate(ctx, "unlock")
		require.NoError(t, err)
		assert.False(t, ok)

		session := f.gate.Session()
		assert.False(t, session.IsUnlocked)
		assert.True(t, session.SensitiveItemsLocked)
		assert.Equal(t, uint64(2), session.LockEpoch)

		events := f.recorded()
		require.Len(t, events, 3)
		assert.Equal(t, authDomain.ActionAuthenticate, events[2].Action)
		assert.False(t, events[2].Success)
	})

	t.Run("lock while recording voids success", func(t *testing.T) {
		writing := make(chan struct{})
		release := make(chan struct{})

		auth := &authMocks.MockAuthenticator{}
		auth.On("Authenticate", ctx, "unlock").Return(true).Once()
		logs := &usecaseMocks.MockAccessLogRepository{}
		logs.On("Create", mock.Anything, mock.MatchedBy(func(e *authDomain.AccessLog) bool {
			return e.Action != authDomain.ActionAuthenticate
		})).Return(nil)
		logs.On("Create", mock.Anything, mock.MatchedBy(func(e *authDomain.AccessLog) bool {
			return e.Action == authDomain.ActionAuthenticate
		})).
			Run(func(mock.Arguments) {
				close(writing)
				<-release
			}).
			Return(nil).
			Once()

		gate, err := usecase.NewAccessGate(
			auth, logs, scheduler.New(clockwork.NewFakeClock()), defaultGateConfig(), testutil.DiscardLogger(),
		)
		require.NoError(t, err)
		gate.Lock(ctx, authDomain.LockReasonManual)

		type result struct {
			ok  bool
			err error
		}
		done := make(chan result, 1)
		go func() {
			ok, err := gate.Authenticate(ctx, "unlock")
			done <- result{ok, err}
		}()

		<-writing

		// A slow log write must not hold up readers or a lock.
		locked := make(chan struct{})
		go func() {
			_ = gate.Session()
			gate.Lock(ctx, authDomain.LockReasonSleep)
			close(locked)
		}()
		select {
		case <-locked:
		case <-time.After(time.Second):
			close(release)
			t.Fatal("gate blocked while the access log was being written")
		}

		close(release)
		res := <-done
		require.NoError(t, res.err)
		assert.False(t, res.ok)

		session := gate.Session()
		assert.False(t, session.IsUnlocked)
		assert.True(t, session.SensitiveItemsLocked)
		assert.Equal(t, uint64(2), session.LockEpoch)
		assert.Equal(t, authDomain.LockReasonSleep, session.LastLockReason)
		logs.AssertExpectations(t)
	})

	t.Run("throttles attempts", func(t *testing.T) {
		cfg := defaultGateConfig()
		cfg.AttemptsPerMinute = 1
		cfg.AttemptBurst = 1
		f := newGateFixture(t, cfg)
		f.auth.On("Authenticate", ctx, "unlock").Return(false)

		ok, err := f.gate.Authenticate(ctx, "unlock")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = f.gate.Authenticate(ctx, "unlock")
		assert.False(t, ok)
		assert.ErrorIs(t, err, authDomain.ErrTooManyAttempts)
		f.auth.AssertNumberOfCalls(t, "Authenticate", 1)

		events := f.recorded()
		require.Len(t, events, 2)
		assert.False(t, events[1].Success)

		f.clock.Advance(time.Minute)
		_, err = f.gate.Authenticate(ctx, "unlock")
		require.NoError(t, err)
		f.auth.AssertNumberOfCalls(t, "Authenticate", 2)
	})
}

func TestAccessGate_AuthenticateForSensitiveContent(t *testing.T) {
	ctx := context.Background()

	t.Run("no prompt when not required", func(t *testing.T) {
		cfg := defaultGateConfig()
		cfg.RequireAuthForSensitive = false
		f := newGateFixture(t, cfg)
		f.gate.Lock(ctx, authDomain.LockReasonManual)

		ok, err := f.gate.AuthenticateForSensitiveContent(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("prompts at start then reuses the unlock", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())
		f.auth.On("Authenticate", ctx, mock.AnythingOfType("string")).Return(true).Once()

		ok, err := f.gate.AuthenticateForSensitiveContent(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.gate.AuthenticateForSensitiveContent(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		f.auth.AssertNumberOfCalls(t, "Authenticate", 1)
	})

	t.Run("prompts again after a lock", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())
		f.auth.On("Authenticate", ctx, mock.AnythingOfType("string")).Return(true).Once()
		f.auth.On("Authenticate", ctx, mock.AnythingOfType("string")).Return(false).Once()

		ok, _ := f.gate.AuthenticateForSensitiveContent(ctx)
		require.True(t, ok)
		f.gate.Lock(ctx, authDomain.LockReasonSleep)

		ok, err := f.gate.AuthenticateForSensitiveContent(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAccessGate_UpdateActivity(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t, defaultGateConfig())

	f.clock.Advance(2 * time.Minute)
	f.gate.UpdateActivity()
	assert.Equal(t, f.clock.Now(), f.gate.Session().LastActivityTime)

	f.gate.Lock(ctx, authDomain.LockReasonManual)
	before := f.gate.Session().LastActivityTime
	f.clock.Advance(time.Minute)
	f.gate.UpdateActivity()

	session := f.gate.Session()
	assert.False(t, session.IsUnlocked)
	assert.Equal(t, before, session.LastActivityTime)
}

func TestAccessGate_CheckInactivity(t *testing.T) {
	ctx := context.Background()

	t.Run("locks once the threshold is reached", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())

		f.clock.Advance(5*time.Minute - time.Second)
		assert.False(t, f.gate.CheckInactivity(ctx))
		assert.True(t, f.gate.Session().IsUnlocked)

		f.clock.Advance(time.Second)
		assert.True(t, f.gate.CheckInactivity(ctx))

		session := f.gate.Session()
		assert.False(t, session.IsUnlocked)
		assert.Equal(t, authDomain.LockReasonInactivity, session.LastLockReason)

		assert.False(t, f.gate.CheckInactivity(ctx), "already locked")
	})

	t.Run("activity postpones the lock", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())

		f.clock.Advance(4 * time.Minute)
		f.gate.UpdateActivity()
		f.clock.Advance(4 * time.Minute)
		assert.False(t, f.gate.CheckInactivity(ctx))
	})

	t.Run("zero disables auto-lock", func(t *testing.T) {
		f := newGateFixture(t, defaultGateConfig())
		require.NoError(t, f.gate.SetAutoLockMinutes(0))

		f.clock.Advance(24 * time.Hour)
		assert.False(t, f.gate.CheckInactivity(ctx))
	})
}

func TestAccessGate_StartAutoLock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := defaultGateConfig()
	cfg.AutoLockMinutes = 1
	f := newGateFixture(t, cfg)

	locked := make(chan authDomain.Session, 1)
	f.gate.Subscribe(func(s authDomain.Session) { locked <- s })

	job := f.gate.StartAutoLock(ctx, 30*time.Second)
	defer job.Cancel()

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(30 * time.Second)
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	assert.True(t, f.gate.Session().IsUnlocked)

	f.clock.Advance(30 * time.Second)
	select {
	case s := <-locked:
		assert.False(t, s.IsUnlocked)
		assert.Equal(t, authDomain.LockReasonInactivity, s.LastLockReason)
	case <-ctx.Done():
		t.Fatal("session was not auto-locked")
	}
}

func TestAccessGate_Settings(t *testing.T) {
	f := newGateFixture(t, defaultGateConfig())

	var last authDomain.Session
	f.gate.Subscribe(func(s authDomain.Session) { last = s })

	require.NoError(t, f.gate.SetAutoLockMinutes(15))
	assert.Equal(t, 15, last.AutoLockMinutes)
	assert.ErrorIs(t, f.gate.SetAutoLockMinutes(-3), authDomain.ErrInvalidAutoLockMinutes)
	assert.Equal(t, 15, f.gate.Session().AutoLockMinutes)

	f.gate.SetRequireAuthForSensitive(false)
	assert.False(t, last.RequireAuthForSensitive)
	assert.True(t, f.gate.Session().SensitiveAccessOpen())
}

func TestAccessGate_ListAccessLog(t *testing.T) {
	ctx := context.Background()
	entries := []*authDomain.AccessLog{
		authDomain.NewAccessLog(authDomain.ActionAuthenticate, true, time.Now()),
	}
	logs := &usecaseMocks.MockAccessLogRepository{}
	logs.On("List", ctx, 0, 50).Return(entries, nil)

	gate, err := usecase.NewAccessGate(
		&authMocks.MockAuthenticator{}, logs, scheduler.New(clockwork.NewFakeClock()),
		defaultGateConfig(), testutil.DiscardLogger(),
	)
	require.NoError(t, err)

	got, err := gate.ListAccessLog(ctx, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
