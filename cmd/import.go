package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/export"
	"github.com/eurotrade/salesdesk/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import prospects from a spreadsheet",
	Long:  "Reads prospect rows laid out like the exported Prospects sheet. Fresh IDs are allocated; rows that fail validation are reported and skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		prospects, rowErrs, err := export.ReadProspectsXLSX(args[0])
		if err != nil {
			return eris.Wrap(err, "import")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tr := newTracker(st)
		added := 0
		for _, p := range prospects {
			_, err := tr.AddProspect(ctx, service.ProspectInput{
				Client:           p.Client,
				Market:           p.Market,
				Product:          p.Product,
				FirstContactDate: p.FirstContactDate,
				OfferSent:        p.OfferSent,
				OfferDate:        p.OfferDate,
				AmountUSD:        p.AmountUSD,
				Status:           p.Status,
				NextFollowUpDate: p.NextFollowUpDate,
				ClientResponded:  p.ClientResponded,
				ResponseDate:     p.ResponseDate,
				LossReason:       p.LossReason,
				Supplier:         p.Supplier,
				SignatureDate:    p.SignatureDate,
				Note:             p.Note,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipped %s: %v\n", p.Client, err)
				continue
			}
			added++
		}

		for _, re := range rowErrs {
			fmt.Fprintf(os.Stderr, "row %d: %s\n", re.Row, re.Reason)
		}
		fmt.Printf("Imported %d prospects from %s (%d rows skipped)\n",
			added, args[0], len(rowErrs)+len(prospects)-added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
