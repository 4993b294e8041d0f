package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Run the song pipeline only",
	Long:  "Extract the songs and artists dimension tables from song_data and overwrite their destinations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, runs, err := newPipeline(ctx, cmd)
		if err != nil {
			return err
		}
		defer runs.Close()

		if err := p.RunSongs(ctx); err != nil {
			return eris.Wrap(err, "songs")
		}

		fmt.Println("Song pipeline complete")
		return nil
	},
}

func init() {
	addETLFlags(songsCmd)
	rootCmd.AddCommand(songsCmd)
}
