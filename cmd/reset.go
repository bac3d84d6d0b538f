package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and restore the defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintln(os.Stderr, "This deletes every prospect, offer and reference. Re-run with --yes to confirm.")
			return eris.New("reset: not confirmed")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := newTracker(st).Reset(ctx); err != nil {
			return eris.Wrap(err, "reset")
		}
		fmt.Println("All data reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "confirm the reset")
	rootCmd.AddCommand(resetCmd)
}
