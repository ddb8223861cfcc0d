package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// SessionState reports whether the session is unlocked and its lock epoch.
type SessionState func() (unlocked bool, lockEpoch uint64)

// RegisterSessionGauges exposes the session state as two observable gauges,
// read on every scrape.
func RegisterSessionGauges(meterProvider metric.MeterProvider, namespace string, state SessionState) error {
	meter := meterProvider.Meter(namespace)

	unlocked, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_session_unlocked", namespace),
		metric.WithDescription("1 while the session is unlocked, 0 while locked"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session gauge: %w", err)
	}

	epoch, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_session_lock_epoch", namespace),
		metric.WithDescription("Number of lock transitions since start"),
	)
	if err != nil {
		return fmt.Errorf("failed to create lock epoch gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		isUnlocked, lockEpoch := state()
		value := int64(0)
		if isUnlocked {
			value = 1
		}
		o.ObserveInt64(unlocked, value)
		o.ObserveInt64(epoch, int64(lockEpoch)) //nolint:gosec // epoch never approaches MaxInt64
		return nil
	}, unlocked, epoch)
	if err != nil {
		return fmt.Errorf("failed to register session callback: %w", err)
	}
	return nil
}
