package statelog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/entity"
	"github.com/dayrize/statelog/internal/fsm"
)

// Hook bridges the state-machine engine to the manager. It fires only after a
// transition's guard passed and its in-memory logic ran, so a rejected
// transition never produces a log entry of any kind.
type Hook struct {
	manager  *Manager
	registry *entity.Registry
	log      logrus.FieldLogger
}

func NewHook(manager *Manager, registry *entity.Registry, log logrus.FieldLogger) *Hook {
	return &Hook{
		manager:  manager,
		registry: registry,
		log:      log,
	}
}

// Register wires the hook into the machine's transition callbacks and the
// registry's post-save callbacks.
func (h *Hook) Register(m *fsm.Machine) {
	m.OnTransition(h.HandleTransition)
	h.registry.OnPostSave(h.HandlePostSave)
}

// HandleTransition is an fsm.TransitionFunc. For kinds whose store saves
// immediately on mutation there is no gap to bridge, so the entry is
// committed directly; for everything else it is staged and the post-save
// callback promotes it. A staging failure propagates and interrupts the
// transition's caller.
func (h *Hook) HandleTransition(ctx context.Context, ev fsm.TransitionEvent) error {
	autoSave, err := h.registry.AutoSaves(ev.Ref.Kind)
	if err != nil {
		return err
	}
	if autoSave {
		_, err := h.manager.Create(ctx, ev.Target, ev.Transition, ev.By, ev.Ref)
		return err
	}
	_, err = h.manager.CreatePending(ctx, ev.Target, ev.Transition, ev.By, ev.Ref)
	return err
}

// HandlePostSave is an entity.PostSaveFunc. It commits whatever entry is
// staged for the saved entity; saves without a staged entry are a no-op.
func (h *Hook) HandlePostSave(ctx context.Context, ref domain.ObjectRef, created bool) error {
	return h.manager.CommitPendingForObject(ctx, ref)
}
