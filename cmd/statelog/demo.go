package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dayrize/statelog/internal/config"
	"github.com/dayrize/statelog/internal/demo"
	"github.com/dayrize/statelog/internal/domain"
	"github.com/dayrize/statelog/internal/kvstore"
	"github.com/dayrize/statelog/internal/store"
	flog "github.com/dayrize/statelog/pkg/log"
)

// NewCmdDemo runs the article workflow end to end against a throwaway sqlite
// database and an in-memory cache store, then prints the committed trail.
func NewCmdDemo() *cobra.Command {
	var dbPath string
	var actor string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the example article workflow and print its audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(dbPath, actor)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file (default: a file under the OS temp dir)")
	cmd.Flags().StringVar(&actor, "by", "jacob", "actor credited with the transitions; empty for none")

	return cmd
}

func runDemo(dbPath, actor string) error {
	ctx := context.Background()
	log := flog.InitLogs()
	log.SetLevel(logrus.InfoLevel)

	if dbPath == "" {
		dir, err := os.MkdirTemp("", appName)
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		dbPath = filepath.Join(dir, "demo.db")
	}

	cfg := config.NewDefault()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = dbPath

	db, err := store.InitDB(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	cache := kvstore.NewMemoryKVStore(cfg.KV.PendingTTL())
	defer cache.Close()

	workflow, err := demo.NewWorkflow(db, cache, cfg.KV.PendingTTL(), log)
	if err != nil {
		return fmt.Errorf("wiring workflow: %w", err)
	}
	if err := workflow.InitialMigration(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	defer workflow.Store.Close()

	var by *domain.Actor
	if actor != "" {
		by = &domain.Actor{ID: actor, Name: actor}
	}

	article := &demo.Article{Title: "Hello, world", State: demo.StateDraft}
	if err := workflow.Registry.Save(ctx, article); err != nil {
		return fmt.Errorf("creating article: %w", err)
	}

	for _, transition := range []string{"submit", "publish"} {
		if err := workflow.Machine.Apply(ctx, article, transition, by); err != nil {
			return fmt.Errorf("applying %q: %w", transition, err)
		}
		if err := workflow.Registry.Save(ctx, article); err != nil {
			return fmt.Errorf("saving article after %q: %w", transition, err)
		}
	}

	ref, err := workflow.Registry.RefOf(article)
	if err != nil {
		return err
	}
	trail, err := workflow.Manager.For(ctx, ref)
	if err != nil {
		return fmt.Errorf("listing audit trail: %w", err)
	}

	fmt.Printf("Audit trail for %s:\n", ref)
	for _, entry := range trail {
		byName := "-"
		if entry.By != nil {
			byName = entry.By.Name
		}
		fmt.Printf("  %s  %-10s -> %-10s  by %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Transition, entry.State, byName)
	}
	return nil
}
