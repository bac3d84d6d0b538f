package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/export"
)

var backupCmd = &cobra.Command{
	Use:   "backup <file.json>",
	Short: "Write a JSON backup of all data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tr := newTracker(st)
		prospects, err := tr.Prospects(ctx)
		if err != nil {
			return eris.Wrap(err, "backup")
		}
		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "backup")
		}
		refs, err := tr.Refs(ctx)
		if err != nil {
			return eris.Wrap(err, "backup")
		}

		if err := export.WriteBackup(args[0], prospects, offers, refs); err != nil {
			return err
		}
		fmt.Printf("Backed up %d prospects and %d offers to %s\n", len(prospects), len(offers), args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file.json>",
	Short: "Restore all data from a JSON backup",
	Long:  "Replaces every collection with the backup's contents. The current data is overwritten, not merged.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, err := export.ReadBackup(args[0])
		if err != nil {
			return eris.Wrap(err, "restore")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := newTracker(st).ReplaceAll(ctx, b.Prospects, b.Offers, b.Refs); err != nil {
			return eris.Wrap(err, "restore")
		}

		fmt.Printf("Restored %d prospects and %d offers from %s (backup %s, created %s)\n",
			len(b.Prospects), len(b.Offers), args[0], b.ID, b.CreatedAt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
