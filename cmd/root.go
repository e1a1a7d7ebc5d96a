package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "menuscout",
	Short: "Local-deal enrichment pipeline",
	Long: "Crawls consented venue websites, extracts and normalizes promotional deals, " +
		"and merges them into the canonical venue dataset. Each subcommand is one " +
		"independently runnable pipeline stage over fixed input/output files.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		zap.L().Info("stage starting",
			zap.String("stage", cmd.Name()),
			zap.String("run_id", uuid.NewString()),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// orDefault returns the flag value when set, else the configured default.
func orDefault(flag, def string) string {
	if flag != "" {
		return flag
	}
	return def
}
