package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/they4kman/sweepcore/game"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Place a round and print its snapshot as YAML",
	Long: `Place a round and print its snapshot as YAML.

With --snapshot, the loaded round is replayed and printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSnapshot(cmd.OutOrStdout(), gameConfig)
	},
}

func printSnapshot(w io.Writer, config game.GameConfig) error {
	g, err := game.NewGame(config)
	if err != nil {
		return err
	}

	if config.Snapshot != nil {
		err = g.Replay(config.Snapshot, config.LoadSnapshotFresh)
	} else {
		err = g.NewRound(config.NumHazards)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, g.RoundSnapshot().Serialize())
	return err
}
