package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	cryptoService "github.com/prateekro/trayme-guard/internal/crypto/service"
	"github.com/prateekro/trayme-guard/internal/database"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
	"github.com/prateekro/trayme-guard/internal/scheduler"
	secretsDomain "github.com/prateekro/trayme-guard/internal/secrets/domain"
)

// expireTimeout bounds the row delete issued by a deletion timer.
const expireTimeout = 30 * time.Second

const unlockToRetrieveReason = "Unlock to view a protected item"

// secretStore implements SecretStore.
type secretStore struct {
	txManager database.TxManager
	items     ItemRepository
	box       cryptoService.Box
	gate      Gate
	sched     scheduler.Scheduler
	logger    *slog.Logger

	// mu serializes row access and the timer table. It is never held while
	// the gate prompts.
	mu     sync.Mutex
	timers map[uuid.UUID]scheduler.Job
}

// NewSecretStore creates a SecretStore.
func NewSecretStore(
	txManager database.TxManager,
	items ItemRepository,
	box cryptoService.Box,
	gate Gate,
	sched scheduler.Scheduler,
	logger *slog.Logger,
) SecretStore {
	return &secretStore{
		txManager: txManager,
		items:     items,
		box:       box,
		gate:      gate,
		sched:     sched,
		logger:    logger,
		timers:    make(map[uuid.UUID]scheduler.Job),
	}
}

// Store encrypts and persists plaintext, then arms its deletion timer.
func (s *secretStore) Store(
	ctx context.Context,
	plaintext []byte,
	kind string,
	ttl time.Duration,
) (uuid.UUID, error) {
	item, err := secretsDomain.NewSelfDestructingItem(nil, kind, s.sched.Now(), ttl)
	if err != nil {
		return uuid.Nil, err
	}

	payload, err := s.box.Encrypt(ctx, plaintext)
	if err != nil {
		return uuid.Nil, err
	}
	item.Payload = payload

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.items.Create(ctx, item); err != nil {
		return uuid.Nil, err
	}
	s.scheduleLocked(item.ID, item.AutoDeleteAt)

	s.logger.Info("item stored",
		slog.String("item_id", item.ID.String()),
		slog.String("kind", item.Kind),
		slog.Time("auto_delete_at", item.AutoDeleteAt),
	)
	return item.ID, nil
}

// Retrieve authenticates, loads and decrypts an item.
func (s *secretStore) Retrieve(ctx context.Context, id uuid.UUID) ([]byte, error) {
	epoch := s.gate.LockEpoch()

	ok, err := s.authorize(ctx)
	if err != nil || !ok {
		s.logger.Debug("item retrieval not authorized",
			slog.String("item_id", id.String()),
			slog.Any("error", err),
		)
		return nil, secretsDomain.ErrItemUnavailable
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.box.Decrypt(ctx, item.Payload)
	cryptoDomain.Zero(item.Payload)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrDecryptionFailed) {
			s.logger.Warn("item cannot be decrypted with the current key",
				slog.String("item_id", id.String()))
			return nil, fmt.Errorf("%w: %w", secretsDomain.ErrItemUnavailable, err)
		}
		return nil, err
	}

	if s.gate.LockEpoch() != epoch {
		cryptoDomain.Zero(plaintext)
		s.logger.Info("session locked during retrieval; discarding plaintext",
			slog.String("item_id", id.String()))
		return nil, secretsDomain.ErrItemUnavailable
	}

	return plaintext, nil
}

// authorize asks a locked session to unlock before anything else. The
// sensitive-content policy only applies to an unlocked session.
func (s *secretStore) authorize(ctx context.Context) (bool, error) {
	if !s.gate.Session().IsUnlocked {
		return s.gate.Authenticate(ctx, unlockToRetrieveReason)
	}
	return s.gate.AuthenticateForSensitiveContent(ctx)
}

// load reads the row under mu and destroys it if it is already due.
func (s *secretStore) load(ctx context.Context, id uuid.UUID) (*secretsDomain.SelfDestructingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, secretsDomain.ErrItemNotFound) {
			return nil, secretsDomain.ErrItemUnavailable
		}
		return nil, err
	}

	if item.Expired(s.sched.Now()) {
		cryptoDomain.Zero(item.Payload)
		if err := s.deleteLocked(ctx, id); err != nil {
			s.logger.Error("failed to delete expired item",
				slog.String("item_id", id.String()),
				slog.Any("error", err),
			)
		}
		return nil, secretsDomain.ErrItemUnavailable
	}

	return item, nil
}

// Delete removes an item unconditionally.
func (s *secretStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteLocked(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", slog.String("item_id", id.String()))
	return nil
}

// Restore purges what expired while the process was down and re-arms the rest.
func (s *secretStore) Restore(ctx context.Context) (int, error) {
	if _, err := s.PurgeExpired(ctx, false); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.items.ListPending(ctx, s.sched.Now())
	if err != nil {
		return 0, err
	}
	for _, item := range pending {
		s.scheduleLocked(item.ID, item.AutoDeleteAt)
	}

	s.logger.Info("item timers restored", slog.Int("count", len(pending)))
	return len(pending), nil
}

// PurgeExpired deletes every row whose deadline has passed.
func (s *secretStore) PurgeExpired(ctx context.Context, dryRun bool) (*secretsDomain.PurgeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired, err := s.items.ListExpired(ctx, s.sched.Now())
	if err != nil {
		return nil, err
	}

	report := &secretsDomain.PurgeReport{
		DryRun:  dryRun,
		Expired: make([]uuid.UUID, 0, len(expired)),
	}
	for _, item := range expired {
		report.Expired = append(report.Expired, item.ID)
	}
	if dryRun || len(expired) == 0 {
		return report, nil
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		for _, id := range report.Expired {
			if err := s.items.Delete(txCtx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to purge expired items")
	}

	for _, id := range report.Expired {
		s.cancelLocked(id)
	}
	report.Deleted = len(report.Expired)

	s.logger.Info("expired items purged", slog.Int("count", report.Deleted))
	return report, nil
}

// StartSweep schedules the periodic purge.
func (s *secretStore) StartSweep(ctx context.Context, interval time.Duration) scheduler.Job {
	return s.sched.Every(interval, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.PurgeExpired(ctx, false); err != nil {
			s.logger.Error("expired item sweep failed", slog.Any("error", err))
		}
	})
}

// Close cancels all pending timers.
func (s *secretStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.timers {
		s.cancelLocked(id)
	}
}

// expire runs when an item's deadline is reached.
func (s *secretStore) expire(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, id)
	if err := s.items.Delete(ctx, id); err != nil {
		s.logger.Error("scheduled item deletion failed; the sweep will retry",
			slog.String("item_id", id.String()),
			slog.Any("error", err),
		)
		return
	}
	s.logger.Info("item destroyed", slog.String("item_id", id.String()))
}

// scheduleLocked arms the deletion timer for id. s.mu must be held.
func (s *secretStore) scheduleLocked(id uuid.UUID, at time.Time) {
	s.cancelLocked(id)
	s.timers[id] = s.sched.At(at, func() { s.expire(id) })
}

// cancelLocked stops the deletion timer for id. s.mu must be held.
func (s *secretStore) cancelLocked(id uuid.UUID) {
	if job, ok := s.timers[id]; ok {
		job.Cancel()
		delete(s.timers, id)
	}
}

// deleteLocked removes the row and its timer. s.mu must be held.
func (s *secretStore) deleteLocked(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.cancelLocked(id)
	return nil
}
