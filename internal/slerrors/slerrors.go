package slerrors

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEntryIsNil          = errors.New("log entry is nil")
	ErrEntityIsNil         = errors.New("entity is nil")
	ErrEntityNotRegistered = errors.New("entity kind is not registered")
	ErrEmptyPrimaryKey     = errors.New("entity has no primary key")
	ErrResourceNotFound    = errors.New("object not found")
	ErrDuplicateEntry      = errors.New("an entry with this key already exists")

	// commit-time reference check
	ErrDanglingReference = errors.New("log entry references an entity that does not exist")
)

func ErrorFromGormError(err error) error {
	switch err {
	case nil:
		return nil
	case gorm.ErrRecordNotFound:
		return ErrResourceNotFound
	case gorm.ErrDuplicatedKey:
		return ErrDuplicateEntry
	default:
		return err
	}
}
