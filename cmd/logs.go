package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Run the log pipeline only",
	Long: `Extract the users and time dimension tables and the songplays fact
table from log_data. The songs table must already be materialized at the
output root (run the song pipeline first).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, runs, err := newPipeline(ctx, cmd)
		if err != nil {
			return err
		}
		defer runs.Close()

		if err := p.RunLogs(ctx); err != nil {
			return eris.Wrap(err, "logs")
		}

		fmt.Println("Log pipeline complete")
		return nil
	},
}

func init() {
	addETLFlags(logsCmd)
	rootCmd.AddCommand(logsCmd)
}
