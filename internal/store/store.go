package store

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Store interface {
	StateLog() StateLog
	InitialMigration() error
	Close() error
}

type DataStore struct {
	stateLog StateLog

	db *gorm.DB
}

func NewStore(db *gorm.DB, log logrus.FieldLogger) Store {
	return &DataStore{
		stateLog: NewStateLog(db, log),
		db:       db,
	}
}

func (s *DataStore) StateLog() StateLog {
	return s.stateLog
}

func (s *DataStore) InitialMigration() error {
	return s.StateLog().InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
