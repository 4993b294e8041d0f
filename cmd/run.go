package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full ETL",
	Long: `Run both pipelines in dependency order: the song pipeline writes the
songs and artists dimensions, then the log pipeline writes users, time, and
the songplays fact table. Each destination is fully overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, runs, err := newPipeline(ctx, cmd)
		if err != nil {
			return err
		}
		defer runs.Close()

		if err := p.Run(ctx); err != nil {
			return eris.Wrap(err, "run")
		}

		fmt.Println("ETL complete")
		return nil
	},
}

func init() {
	addETLFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
