package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/streamhouse/songlake/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "songlake",
	Short: "Batch ETL for music-streaming event logs",
	Long:  "Reads raw song-metadata and user-activity JSON logs, builds a five-table star schema (songs, artists, users, time, songplays), and writes it as partitioned Parquet file sets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

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
