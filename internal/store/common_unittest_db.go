package store

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/dayrize/statelog/internal/config"
	flog "github.com/dayrize/statelog/pkg/log"
)

// PrepareDBForUnitTests opens a throwaway sqlite database under the test's
// temp dir and runs migrations on it. The database is removed with the temp
// dir when the test finishes.
func PrepareDBForUnitTests(t *testing.T) (Store, *logrus.Logger) {
	t.Helper()

	log := flog.InitLogs()
	cfg := config.NewDefault()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = filepath.Join(t.TempDir(), "statelog-test.db")

	db, err := InitDB(cfg, log)
	require.NoError(t, err)

	store := NewStore(db, log.WithField("pkg", "store"))
	require.NoError(t, store.InitialMigration())

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("closing test store: %v", err)
		}
	})

	return store, log
}
