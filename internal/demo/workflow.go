package demo

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/entity"
	"github.com/dayrize/statelog/internal/fsm"
	"github.com/dayrize/statelog/internal/kvstore"
	"github.com/dayrize/statelog/internal/statelog"
	"github.com/dayrize/statelog/internal/store"
	flog "github.com/dayrize/statelog/pkg/log"
)

const (
	StateDraft     = "draft"
	StateSubmitted = "submitted"
	StatePublished = "published"
)

// Workflow wires the article state machine, the entity registry, and the log
// manager into one working unit: apply a transition, save, and the committed
// trail shows up under the article's identity.
type Workflow struct {
	Machine  *fsm.Machine
	Registry *entity.Registry
	Manager  *statelog.Manager
	Store    store.Store

	db *gorm.DB
}

func NewWorkflow(db *gorm.DB, cache kvstore.KVStore, pendingTTL time.Duration, log logrus.FieldLogger) (*Workflow, error) {
	dataStore := store.NewStore(db, log.WithField("pkg", "store"))

	registry := entity.NewRegistry(db, log.WithField("pkg", "entity"))
	if err := registry.Register("Article", &Article{}); err != nil {
		return nil, err
	}

	manager := statelog.NewManager(cache, dataStore.StateLog(), registry.Resolve, pendingTTL, log.WithField("pkg", "statelog"))

	machine := fsm.NewMachine(func(obj fsm.StateHolder) (domain.ObjectRef, error) {
		return registry.RefOf(obj.(*Article))
	}, flog.WithKind("Article", log.WithField("pkg", "fsm")),
		fsm.Transition{Name: "submit", From: []string{StateDraft}, To: StateSubmitted},
		fsm.Transition{Name: "publish", From: []string{StateSubmitted}, To: StatePublished},
	)

	hook := statelog.NewHook(manager, registry, log.WithField("pkg", "statelog"))
	hook.Register(machine)

	return &Workflow{
		Machine:  machine,
		Registry: registry,
		Manager:  manager,
		Store:    dataStore,
		db:       db,
	}, nil
}

// InitialMigration creates the log table and the demo article table.
func (w *Workflow) InitialMigration() error {
	if err := w.Store.InitialMigration(); err != nil {
		return err
	}
	return w.db.AutoMigrate(&Article{})
}
