package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamhouse/songlake/internal/runlog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show ETL run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := runlog.Open(cfg.Runlog.Path)
		if err != nil {
			return err
		}
		defer runs.Close()

		if err := runs.Migrate(ctx); err != nil {
			return err
		}

		entries, err := runs.List(ctx, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-8s  %10s  %-20s\n", "ID", "TABLE", "STATUS", "ROWS", "STARTED")
		for _, e := range entries {
			fmt.Printf("%-36s  %-10s  %-8s  %10d  %-20s\n",
				e.ID, e.Table, e.Status, e.Rows, e.StartedAt.Format("2006-01-02 15:04:05"))
			if e.Error != "" {
				fmt.Printf("    error: %s\n", e.Error)
			}
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", 50, "maximum entries to show")
	rootCmd.AddCommand(runsCmd)
}
