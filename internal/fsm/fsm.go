package fsm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dayrize/statelog/internal/domain"
)

var ErrTransitionNotAllowed = errors.New("transition not allowed")

// StateHolder is implemented by any entity whose state field a Machine may
// read and mutate.
type StateHolder interface {
	CurrentState() string
	SetState(state string)
}

// TransitionEvent describes one successfully applied transition. It is handed
// to registered callbacks after the entity's state field has been mutated in
// memory and before the caller persists the entity.
type TransitionEvent struct {
	Source     string
	Target     string
	Transition string
	By         *domain.Actor
	Ref        domain.ObjectRef
}

// TransitionFunc is a callback fired on every successful transition. An error
// aborts the Apply call and propagates to the transition's caller.
type TransitionFunc func(ctx context.Context, ev TransitionEvent) error

// GuardFunc is the transition's validity condition beyond source-state
// matching. A nil guard always passes.
type GuardFunc func(obj StateHolder) bool

type Transition struct {
	Name  string
	From  []string
	To    string
	Guard GuardFunc
}

// RefFunc derives the entity identity the transition is recorded against.
type RefFunc func(obj StateHolder) (domain.ObjectRef, error)

// Machine validates and applies named transitions on entities of one kind.
// Callbacks are registered explicitly; there is no global dispatch table.
type Machine struct {
	transitions map[string]Transition
	callbacks   []TransitionFunc
	refOf       RefFunc
	log         logrus.FieldLogger
}

func NewMachine(refOf RefFunc, log logrus.FieldLogger, transitions ...Transition) *Machine {
	m := &Machine{
		transitions: make(map[string]Transition, len(transitions)),
		refOf:       refOf,
		log:         log,
	}
	for _, t := range transitions {
		m.transitions[t.Name] = t
	}
	return m
}

// OnTransition registers a callback invoked after every successful
// transition, in registration order.
func (m *Machine) OnTransition(fn TransitionFunc) {
	m.callbacks = append(m.callbacks, fn)
}

// Apply runs the named transition on obj. The guard and source-state check
// run first; if either refuses, no callback fires and the state field is left
// untouched.
func (m *Machine) Apply(ctx context.Context, obj StateHolder, name string, by *domain.Actor) error {
	t, ok := m.transitions[name]
	if !ok {
		return fmt.Errorf("%w: unknown transition %q", ErrTransitionNotAllowed, name)
	}

	source := obj.CurrentState()
	if !allowsSource(t, source) {
		return fmt.Errorf("%w: cannot %q from state %q", ErrTransitionNotAllowed, name, source)
	}
	if t.Guard != nil && !t.Guard(obj) {
		return fmt.Errorf("%w: guard refused %q from state %q", ErrTransitionNotAllowed, name, source)
	}

	ref, err := m.refOf(obj)
	if err != nil {
		return err
	}

	obj.SetState(t.To)

	ev := TransitionEvent{
		Source:     source,
		Target:     t.To,
		Transition: name,
		By:         by,
		Ref:        ref,
	}
	m.log.WithFields(logrus.Fields{
		"transition": name,
		"source":     source,
		"target":     t.To,
		"object":     ref.String(),
	}).Debug("transition applied")

	for _, fn := range m.callbacks {
		if err := fn(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func allowsSource(t Transition, source string) bool {
	for _, s := range t.From {
		if s == source {
			return true
		}
	}
	return false
}
