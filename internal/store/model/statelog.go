package model

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/dayrize/statelog/internal/domain"
)

// StateLog is the durable form of a committed log entry. Rows are insert-only:
// nothing in the store exposes an update or delete path for them.
type StateLog struct {
	ID         uint      `gorm:"primarykey"`
	CreatedAt  time.Time `gorm:"index"`
	State      string    `gorm:"type:string"`
	Transition string    `gorm:"type:string"`
	ByID       *string   `gorm:"type:string"`
	ByName     *string   `gorm:"type:string"`
	// ContentKind + ContentPK together identify the referenced entity.
	ContentKind string `gorm:"type:string;index:idx_content_object"`
	ContentPK   string `gorm:"type:string;index:idx_content_object"`
}

func (s StateLog) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}

func NewStateLogFromLogEntry(entry *domain.LogEntry) *StateLog {
	if entry == nil {
		return &StateLog{}
	}
	m := &StateLog{
		CreatedAt:   entry.Timestamp,
		State:       entry.State,
		Transition:  entry.Transition,
		ContentKind: entry.ContentObject.Kind,
		ContentPK:   entry.ContentObject.PK,
	}
	if entry.By != nil {
		m.ByID = lo.ToPtr(entry.By.ID)
		m.ByName = lo.ToPtr(entry.By.Name)
	}
	return m
}

func (s *StateLog) ToLogEntry() *domain.LogEntry {
	if s == nil {
		return &domain.LogEntry{}
	}
	entry := &domain.LogEntry{
		State:      s.State,
		Transition: s.Transition,
		ContentObject: domain.ObjectRef{
			Kind: s.ContentKind,
			PK:   s.ContentPK,
		},
		Timestamp: s.CreatedAt,
	}
	if s.ByID != nil {
		entry.By = &domain.Actor{
			ID:   lo.FromPtr(s.ByID),
			Name: lo.FromPtr(s.ByName),
		}
	}
	return entry
}

func StateLogsToLogEntries(logs []StateLog) []domain.LogEntry {
	entries := make([]domain.LogEntry, len(logs))
	for i, log := range logs {
		entries[i] = *log.ToLogEntry()
	}
	return entries
}
