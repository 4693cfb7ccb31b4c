package entity

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dayrize/statelog/internal/config"
	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/slerrors"
	"github.com/dayrize/statelog/internal/store"
	flog "github.com/dayrize/statelog/pkg/log"
)

type ticket struct {
	ID    uint `gorm:"primarykey"`
	State string
}

func (t *ticket) PrimaryKey() string {
	if t.ID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(t.ID), 10)
}

type note struct {
	ID   uint `gorm:"primarykey"`
	Body string
}

func (n *note) PrimaryKey() string {
	if n.ID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n.ID), 10)
}

func prepareRegistry(t *testing.T) (*Registry, *gorm.DB) {
	t.Helper()

	log := flog.InitLogs()
	cfg := config.NewDefault()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = filepath.Join(t.TempDir(), "entity-test.db")

	db, err := store.InitDB(cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ticket{}, &note{}))

	return NewRegistry(db, log.WithField("pkg", "entity")), db
}

func TestRegistry_SaveFiresPostSaveCallbacks(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	registry, _ := prepareRegistry(t)
	require.NoError(registry.Register("Ticket", &ticket{}))

	var gotRef domain.ObjectRef
	var gotCreated []bool
	registry.OnPostSave(func(ctx context.Context, ref domain.ObjectRef, created bool) error {
		gotRef = ref
		gotCreated = append(gotCreated, created)
		return nil
	})

	tk := &ticket{State: "draft"}
	require.NoError(registry.Save(ctx, tk))
	require.NotZero(tk.ID)
	require.Equal(domain.ObjectRef{Kind: "Ticket", PK: tk.PrimaryKey()}, gotRef)

	tk.State = "submitted"
	require.NoError(registry.Save(ctx, tk))
	require.Equal([]bool{true, false}, gotCreated)
}

func TestRegistry_SavePropagatesCallbackError(t *testing.T) {
	require := require.New(t)
	registry, _ := prepareRegistry(t)
	require.NoError(registry.Register("Ticket", &ticket{}))

	boom := errors.New("commit failed")
	registry.OnPostSave(func(ctx context.Context, ref domain.ObjectRef, created bool) error {
		return boom
	})

	err := registry.Save(context.Background(), &ticket{State: "draft"})
	require.ErrorIs(err, boom)
}

func TestRegistry_RefOf(t *testing.T) {
	require := require.New(t)
	registry, _ := prepareRegistry(t)
	require.NoError(registry.Register("Ticket", &ticket{}))

	_, err := registry.RefOf(&ticket{})
	require.ErrorIs(err, slerrors.ErrEmptyPrimaryKey)

	ref, err := registry.RefOf(&ticket{ID: 7})
	require.NoError(err)
	require.Equal(domain.ObjectRef{Kind: "Ticket", PK: "7"}, ref)

	_, err = registry.RefOf(&note{ID: 1})
	require.ErrorIs(err, slerrors.ErrEntityNotRegistered)
}

func TestRegistry_AutoSavesFlag(t *testing.T) {
	require := require.New(t)
	registry, _ := prepareRegistry(t)
	require.NoError(registry.Register("Ticket", &ticket{}))
	require.NoError(registry.Register("Note", &note{}, WithAutoSave()))

	deferred, err := registry.AutoSaves("Ticket")
	require.NoError(err)
	require.False(deferred)

	auto, err := registry.AutoSaves("Note")
	require.NoError(err)
	require.True(auto)

	_, err = registry.AutoSaves("Ghost")
	require.ErrorIs(err, slerrors.ErrEntityNotRegistered)
}

func TestRegistry_Resolve(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	registry, _ := prepareRegistry(t)
	require.NoError(registry.Register("Ticket", &ticket{}))

	tk := &ticket{State: "draft"}
	require.NoError(registry.Save(ctx, tk))

	ok, err := registry.Resolve(ctx, domain.ObjectRef{Kind: "Ticket", PK: tk.PrimaryKey()})
	require.NoError(err)
	require.True(ok)

	ok, err = registry.Resolve(ctx, domain.ObjectRef{Kind: "Ticket", PK: "4040"})
	require.NoError(err)
	require.False(ok)

	_, err = registry.Resolve(ctx, domain.ObjectRef{Kind: "Ghost", PK: "1"})
	require.ErrorIs(err, slerrors.ErrEntityNotRegistered)
}

func TestRegistry_RegisterDuplicateKind(t *testing.T) {
	registry, _ := prepareRegistry(t)
	require.NoError(t, registry.Register("Ticket", &ticket{}))
	require.Error(t, registry.Register("Ticket", &ticket{}))
}
