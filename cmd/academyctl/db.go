package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/database"
	"nextgenacademy/internal/repository"
	"nextgenacademy/internal/store"
)

var errNoDatabase = errors.New("DB_TYPE selects the local file store; nothing to migrate")

// openDatabase connects and brings the schema up to date
func openDatabase(ctx context.Context) (*database.DB, int, error) {
	if !cfg.UsesDatabase() {
		return nil, 0, errNoDatabase
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to initialize database: %w", err)
	}

	fsys, err := db.Migrations(cfg.MigrationsPath)
	if err != nil {
		db.Close()
		return nil, 0, err
	}
	applied, err := db.RunMigrations(ctx, fsys, logger)
	if err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, applied, nil
}

// openStore returns the configured profile store and a func releasing it
func openStore(ctx context.Context) (store.Store, func() error, error) {
	if !cfg.UsesDatabase() {
		st, err := store.OpenLocal(cfg.LocalStorePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	}

	db, _, err := openDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewProfileRepository(db), db.Close, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, applied, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s database\n", applied, cfg.DatabaseType)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed lessons and the name filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, _, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		c, err := catalog.Default()
		if err != nil {
			return err
		}
		n, err := repository.NewLessonRepository(db).Seed(ctx, c.Lessons())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d lesson(s)\n", n)

		file, _ := cmd.Flags().GetString("blocklist-file")
		url, _ := cmd.Flags().GetString("blocklist-url")
		switch {
		case file != "":
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open blocklist: %w", err)
			}
			defer f.Close()
			added, err := db.LoadBlockedWords(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d blocked word(s)\n", added)
		case url != "":
			client := &http.Client{Timeout: 30 * time.Second}
			added, err := db.SeedBlockedWords(ctx, client, url, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d blocked word(s)\n", added)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().String("blocklist-file", "", "Load blocked name words from a file, one per line")
	seedCmd.Flags().String("blocklist-url", "", "Download blocked name words when the filter is empty")
}
