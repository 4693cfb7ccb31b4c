package domain

import (
	"fmt"
	"time"
)

// ObjectRef identifies a domain entity by type name and primary key. The pair
// is the unit of identity everywhere in this package: two refs are the same
// entity iff both fields are equal.
type ObjectRef struct {
	Kind string `json:"kind"`
	PK   string `json:"pk"`
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.PK)
}

func (r ObjectRef) IsZero() bool {
	return r.Kind == "" && r.PK == ""
}

// Actor is the identity credited with causing a transition. Transitions may
// run without one, in which case the entry's By field stays nil.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// LogEntry records one state-machine transition performed on an entity. An
// entry starts out pending (held only in the cache store) and becomes
// immutable once committed to the durable log store.
type LogEntry struct {
	State         string    `json:"state"`
	Transition    string    `json:"transition"`
	By            *Actor    `json:"by,omitempty"`
	ContentObject ObjectRef `json:"contentObject"`
	Timestamp     time.Time `json:"timestamp"`
}
