package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prateekro/trayme-guard/internal/metrics"
	"github.com/prateekro/trayme-guard/internal/scheduler"
	secretsDomain "github.com/prateekro/trayme-guard/internal/secrets/domain"
)

// secretStoreWithMetrics decorates SecretStore with metrics instrumentation.
type secretStoreWithMetrics struct {
	next    SecretStore
	metrics metrics.BusinessMetrics
}

// NewSecretStoreWithMetrics wraps a SecretStore with metrics recording.
func NewSecretStoreWithMetrics(store SecretStore, m metrics.BusinessMetrics) SecretStore {
	return &secretStoreWithMetrics{
		next:    store,
		metrics: m,
	}
}

func (s *secretStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

// Store records metrics for item creation.
func (s *secretStoreWithMetrics) Store(
	ctx context.Context,
	plaintext []byte,
	kind string,
	ttl time.Duration,
) (uuid.UUID, error) {
	start := time.Now()
	id, err := s.next.Store(ctx, plaintext, kind, ttl)
	s.record(ctx, "item_store", start, err)
	return id, err
}

// Retrieve records metrics for item disclosure.
func (s *secretStoreWithMetrics) Retrieve(ctx context.Context, id uuid.UUID) ([]byte, error) {
	start := time.Now()
	plaintext, err := s.next.Retrieve(ctx, id)
	s.record(ctx, "item_retrieve", start, err)
	return plaintext, err
}

// Delete records metrics for item deletion.
func (s *secretStoreWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.record(ctx, "item_delete", start, err)
	return err
}

// Restore records metrics for timer restoration at startup.
func (s *secretStoreWithMetrics) Restore(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.next.Restore(ctx)
	s.record(ctx, "item_restore", start, err)
	return n, err
}

// PurgeExpired records metrics for purges, including dry runs.
func (s *secretStoreWithMetrics) PurgeExpired(ctx context.Context, dryRun bool) (*secretsDomain.PurgeReport, error) {
	start := time.Now()
	report, err := s.next.PurgeExpired(ctx, dryRun)
	s.record(ctx, "item_purge", start, err)
	return report, err
}

func (s *secretStoreWithMetrics) StartSweep(ctx context.Context, interval time.Duration) scheduler.Job {
	return s.next.StartSweep(ctx, interval)
}

func (s *secretStoreWithMetrics) Close() {
	s.next.Close()
}
