package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/exercise"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Work with exercise decks",
}

var deckValidateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check decks for schema and content errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			d, err := exercise.LoadFile(path)
			if err != nil {
				failed++
				cmd.PrintErrf("%s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d exercises, %d lessons)\n", path, len(d.Exercises), len(d.Lessons()))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d decks invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	deckCmd.AddCommand(deckValidateCmd)
}
