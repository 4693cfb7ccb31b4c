package statelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/kvstore"
	"github.com/dayrize/statelog/internal/slerrors"
	"github.com/dayrize/statelog/internal/store"
)

// ResolveFunc reports whether an object reference points at an existing
// entity. The manager calls it before committing so the durable store never
// receives a dangling reference.
type ResolveFunc func(ctx context.Context, ref domain.ObjectRef) (bool, error)

// Manager stages in-flight log entries in the cache store and promotes them
// into the durable log store once the caller confirms the entity was saved.
//
// The staging protocol bridges the gap between "transition applied in memory"
// and "entity persisted": CreatePending must complete before the caller's
// save begins, and CommitPendingForObject must run only after the save
// succeeded. That ordering is the caller's responsibility; the manager
// performs no locking of its own, so concurrent pendings for the same
// identity race last-write-wins.
type Manager struct {
	cache   kvstore.KVStore
	logs    store.StateLog
	resolve ResolveFunc
	ttl     time.Duration
	log     logrus.FieldLogger
}

func NewManager(cache kvstore.KVStore, logs store.StateLog, resolve ResolveFunc, ttl time.Duration, log logrus.FieldLogger) *Manager {
	return &Manager{
		cache:   cache,
		logs:    logs,
		resolve: resolve,
		ttl:     ttl,
		log:     log,
	}
}

// CreatePending constructs a log entry and stages it in the cache store under
// the key derived from ref. A pending entry already staged for the same
// identity is overwritten and permanently lost; callers needing strict
// ordering must serialize transitions per entity. No durable write occurs.
func (m *Manager) CreatePending(ctx context.Context, state, transition string, by *domain.Actor, ref domain.ObjectRef) (*domain.LogEntry, error) {
	entry := &domain.LogEntry{
		State:         state,
		Transition:    transition,
		By:            by,
		ContentObject: ref,
		Timestamp:     time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding pending log entry: %w", err)
	}
	if err := m.cache.Set(ctx, CacheKeyForObject(ref), data, m.ttl); err != nil {
		return nil, fmt.Errorf("staging log entry for %s: %w", ref, err)
	}
	return entry, nil
}

// GetPendingForObject returns the staged entry for ref, or (nil, nil) when
// none exists because it expired, was evicted, or was never created.
func (m *Manager) GetPendingForObject(ctx context.Context, ref domain.ObjectRef) (*domain.LogEntry, error) {
	data, err := m.cache.Get(ctx, CacheKeyForObject(ref))
	if err != nil {
		return nil, fmt.Errorf("reading pending log entry for %s: %w", ref, err)
	}
	if data == nil {
		return nil, nil
	}
	entry := &domain.LogEntry{}
	if err := json.Unmarshal(data, entry); err != nil {
		return nil, fmt.Errorf("decoding pending log entry for %s: %w", ref, err)
	}
	return entry, nil
}

// CommitPendingForObject promotes the staged entry for ref into the durable
// log store and evicts it from the cache. A missing staged entry is an
// expected race (expiry, eviction, double commit) and is a silent no-op.
//
// The cache delete runs only after the durable insert succeeded; on a store
// outage the staged entry stays in the cache, available for a retry.
func (m *Manager) CommitPendingForObject(ctx context.Context, ref domain.ObjectRef) error {
	entry, err := m.GetPendingForObject(ctx, ref)
	if err != nil {
		return err
	}
	if entry == nil {
		m.log.WithField("object", ref.String()).Debug("no pending log entry to commit")
		return nil
	}
	if err := m.create(ctx, entry); err != nil {
		return err
	}
	if err := m.cache.Delete(ctx, CacheKeyForObject(ref)); err != nil {
		return fmt.Errorf("evicting committed log entry for %s: %w", ref, err)
	}
	return nil
}

// Create commits an entry directly, with no staging step. The transition hook
// uses it for kinds whose entity store saves immediately on mutation.
func (m *Manager) Create(ctx context.Context, state, transition string, by *domain.Actor, ref domain.ObjectRef) (*domain.LogEntry, error) {
	entry := &domain.LogEntry{
		State:         state,
		Transition:    transition,
		By:            by,
		ContentObject: ref,
		Timestamp:     time.Now().UTC(),
	}
	if err := m.create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// For returns all committed entries referencing ref, oldest first. Each call
// re-queries the durable store.
func (m *Manager) For(ctx context.Context, ref domain.ObjectRef) ([]domain.LogEntry, error) {
	return m.logs.ListForObject(ctx, ref)
}

func (m *Manager) create(ctx context.Context, entry *domain.LogEntry) error {
	ref := entry.ContentObject
	ok, err := m.resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", ref, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", slerrors.ErrDanglingReference, ref)
	}
	if err := m.logs.Create(ctx, entry); err != nil {
		return fmt.Errorf("committing log entry for %s: %w", ref, err)
	}
	return nil
}
