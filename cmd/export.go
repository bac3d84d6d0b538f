package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export the pipeline to an Excel workbook",
	Long:  "Writes three sheets: Prospects, Offers and References.",
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
			return eris.Wrap(err, "export")
		}
		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "export")
		}
		refs, err := tr.Refs(ctx)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		if err := export.WriteXLSX(args[0], prospects, offers, refs); err != nil {
			return err
		}
		fmt.Printf("Exported %d prospects and %d offers to %s\n", len(prospects), len(offers), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
