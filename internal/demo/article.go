package demo

import (
	"strconv"
	"time"
)

// Article is the example entity the demo workflow transitions. Its store
// defers saves: callers must call Registry.Save explicitly, which is what
// exercises the staging path of the log protocol.
type Article struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Title     string
	State     string `gorm:"index"`
}

func (a *Article) PrimaryKey() string {
	if a.ID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(a.ID), 10)
}

func (a *Article) CurrentState() string { return a.State }

func (a *Article) SetState(state string) { a.State = state }
