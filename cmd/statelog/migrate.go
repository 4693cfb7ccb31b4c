package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dayrize/statelog/internal/config"
	"github.com/dayrize/statelog/internal/store"
	flog "github.com/dayrize/statelog/pkg/log"
)

// NewCmdMigrate creates the durable log store's schema using the configured
// database.
func NewCmdMigrate() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations for the durable log store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cfgFile)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", config.ConfigFile(), "path to the config file")

	return cmd
}

func runMigrate(cfgFile string) error {
	log := flog.InitLogs()

	cfg, err := config.LoadOrGenerate(cfgFile)
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	log.Printf("Using config: %s", cfg)

	logLvl, err := logrus.ParseLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = logrus.InfoLevel
	}
	log.SetLevel(logLvl)

	db, err := store.InitDB(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	dataStore := store.NewStore(db, log.WithField("pkg", "store"))
	defer dataStore.Close()

	if err := dataStore.InitialMigration(); err != nil {
		return fmt.Errorf("running database migrations: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}
