// Command academyctl administers the academy's storage and content.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nextgenacademy/internal/config"
	"nextgenacademy/internal/logging"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "academyctl",
	Short:         "Administer the NextGen Coding Academy",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if dbType, _ := cmd.Flags().GetString("db-type"); dbType != "" {
			cfg.DatabaseType = dbType
		}
		if path, _ := cmd.Flags().GetString("db"); path != "" {
			cfg.DatabasePath = path
		}

		var err error
		logger, err = logging.New(cfg.LogLevel)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("db-type", "", "Database type: sqlite, postgres, supabase, mysql or none (overrides DB_TYPE)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(backupCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
