package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"nextgenacademy/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import learner profiles",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored profile to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
		}
		if dir := filepath.Dir(output); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := service.NewBackupService(st, logger).Export(ctx, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d profile(s) to %s\n", n, output)
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore profiles from a JSON file; existing names are skipped",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		input, _ := cmd.Flags().GetString("input")

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		stats, err := service.NewBackupService(st, logger).Import(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profile(s), skipped %d\n", stats.Created, stats.Skipped)
		return nil
	},
}

func init() {
	backupExportCmd.Flags().StringP("output", "o", "", "Output file (default backup_YYYYMMDD_HHMMSS.json)")
	backupImportCmd.Flags().StringP("input", "i", "", "Backup file to restore")
	_ = backupImportCmd.MarkFlagRequired("input")

	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
}
