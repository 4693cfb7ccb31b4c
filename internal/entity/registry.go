package entity

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/slerrors"
)

// Entity is implemented by persistable domain objects. PrimaryKey returns the
// entity's key as a string, empty while the entity is unsaved. Registered
// entity types must use gorm's conventional `id` primary key column.
type Entity interface {
	PrimaryKey() string
}

// PostSaveFunc is invoked after every successful save, with the saved
// entity's identity and whether the save created a new row.
type PostSaveFunc func(ctx context.Context, ref domain.ObjectRef, created bool) error

type registration struct {
	kind     string
	typ      reflect.Type
	autoSave bool
}

type Option func(*registration)

// WithAutoSave marks the kind as persisting immediately on any state field
// mutation. The transition hook commits log entries for such kinds directly
// instead of staging them.
func WithAutoSave() Option {
	return func(r *registration) {
		r.autoSave = true
	}
}

// Registry resolves entity identities, carries the per-kind deferred-save
// capability flag, persists entities, and dispatches post-save callbacks.
// Callback wiring is explicit; nothing fires that was not registered here.
type Registry struct {
	db  *gorm.DB
	log logrus.FieldLogger

	mu       sync.RWMutex
	kinds    map[string]*registration
	types    map[reflect.Type]*registration
	postSave []PostSaveFunc
}

func NewRegistry(db *gorm.DB, log logrus.FieldLogger) *Registry {
	return &Registry{
		db:    db,
		log:   log,
		kinds: make(map[string]*registration),
		types: make(map[reflect.Type]*registration),
	}
}

// Register binds an entity kind name to the prototype's Go type. The kind
// name is the one that appears in cache keys and committed log entries.
func (r *Registry) Register(kind string, prototype Entity, opts ...Option) error {
	if prototype == nil {
		return slerrors.ErrEntityIsNil
	}
	reg := &registration{kind: kind, typ: reflect.TypeOf(prototype)}
	for _, opt := range opts {
		opt(reg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kind]; exists {
		return fmt.Errorf("entity kind %q is already registered", kind)
	}
	r.kinds[kind] = reg
	r.types[reg.typ] = reg
	return nil
}

// OnPostSave registers a callback invoked after every successful Save, in
// registration order.
func (r *Registry) OnPostSave(fn PostSaveFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postSave = append(r.postSave, fn)
}

// AutoSaves reports the kind's capability flag: true when the kind persists
// immediately on mutation and callers never issue an explicit save.
func (r *Registry) AutoSaves(kind string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.kinds[kind]
	if !ok {
		return false, fmt.Errorf("%w: %q", slerrors.ErrEntityNotRegistered, kind)
	}
	return reg.autoSave, nil
}

// RefOf derives the identity of a registered, persisted entity.
func (r *Registry) RefOf(obj Entity) (domain.ObjectRef, error) {
	if obj == nil {
		return domain.ObjectRef{}, slerrors.ErrEntityIsNil
	}
	reg, err := r.registrationFor(obj)
	if err != nil {
		return domain.ObjectRef{}, err
	}
	pk := obj.PrimaryKey()
	if pk == "" {
		return domain.ObjectRef{}, slerrors.ErrEmptyPrimaryKey
	}
	return domain.ObjectRef{Kind: reg.kind, PK: pk}, nil
}

// Save persists the entity and fires the post-save callbacks. A callback
// error propagates to the caller after the row is already durable.
func (r *Registry) Save(ctx context.Context, obj Entity) error {
	if obj == nil {
		return slerrors.ErrEntityIsNil
	}
	if _, err := r.registrationFor(obj); err != nil {
		return err
	}

	created := obj.PrimaryKey() == ""
	if result := r.db.WithContext(ctx).Save(obj); result.Error != nil {
		return slerrors.ErrorFromGormError(result.Error)
	}

	ref, err := r.RefOf(obj)
	if err != nil {
		return err
	}

	r.mu.RLock()
	callbacks := make([]PostSaveFunc, len(r.postSave))
	copy(callbacks, r.postSave)
	r.mu.RUnlock()

	for _, fn := range callbacks {
		if err := fn(ctx, ref, created); err != nil {
			return err
		}
	}
	return nil
}

// Resolve reports whether ref points at an existing row of its kind.
func (r *Registry) Resolve(ctx context.Context, ref domain.ObjectRef) (bool, error) {
	r.mu.RLock()
	reg, ok := r.kinds[ref.Kind]
	r.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: %q", slerrors.ErrEntityNotRegistered, ref.Kind)
	}

	inst := reflect.New(reg.typ.Elem()).Interface()
	err := r.db.WithContext(ctx).First(inst, "id = ?", ref.PK).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, slerrors.ErrorFromGormError(err)
	}
	return true, nil
}

func (r *Registry) registrationFor(obj Entity) (*registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.types[reflect.TypeOf(obj)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", slerrors.ErrEntityNotRegistered, obj)
	}
	return reg, nil
}
