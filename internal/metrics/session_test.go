package metrics

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSessionGauges(t *testing.T) {
	provider, err := NewProvider("guard_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	var unlocked atomic.Bool
	var epoch atomic.Uint64
	err = RegisterSessionGauges(provider.MeterProvider(), "guard_test", func() (bool, uint64) {
		return unlocked.Load(), epoch.Load()
	})
	require.NoError(t, err)

	output := scrape(t, provider)
	assertMetricLine(t, output, `guard_test_session_unlocked`, ``, `0`)
	assertMetricLine(t, output, `guard_test_session_lock_epoch`, ``, `0`)

	unlocked.Store(true)
	epoch.Store(3)

	output = scrape(t, provider)
	assertMetricLine(t, output, `guard_test_session_unlocked`, ``, `1`)
	assertMetricLine(t, output, `guard_test_session_lock_epoch`, ``, `3`)
}
