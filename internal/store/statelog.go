package store

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/slerrors"
	"github.com/dayrize/statelog/internal/store/model"
)

// StateLog is the durable log store: insert-only, queried per entity.
type StateLog interface {
	InitialMigration() error

	Create(ctx context.Context, entry *domain.LogEntry) error
	ListForObject(ctx context.Context, ref domain.ObjectRef) ([]domain.LogEntry, error)
}

type StateLogStore struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// Make sure we conform to StateLog interface
var _ StateLog = (*StateLogStore)(nil)

func NewStateLog(db *gorm.DB, log logrus.FieldLogger) StateLog {
	return &StateLogStore{db: db, log: log}
}

func (s *StateLogStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.StateLog{})
}

func (s *StateLogStore) Create(ctx context.Context, entry *domain.LogEntry) error {
	if entry == nil {
		return slerrors.ErrEntryIsNil
	}
	m := model.NewStateLogFromLogEntry(entry)
	result := s.db.WithContext(ctx).Create(m)
	return slerrors.ErrorFromGormError(result.Error)
}

// ListForObject returns committed entries for the referenced entity in
// insertion order, oldest first.
func (s *StateLogStore) ListForObject(ctx context.Context, ref domain.ObjectRef) ([]domain.LogEntry, error) {
	var logs []model.StateLog
	result := s.db.WithContext(ctx).
		Where("content_kind = ? AND content_pk = ?", ref.Kind, ref.PK).
		Order("id asc").
		Find(&logs)
	if result.Error != nil {
		return nil, slerrors.ErrorFromGormError(result.Error)
	}
	return model.StateLogsToLogEntries(logs), nil
}
