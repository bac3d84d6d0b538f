package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/pricing"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a price from recent comparables",
	Long:  "Computes the median, min and max USD/kg over the trailing 30 days of offers for the same product, market and incoterm. A size/grade narrows the match when given.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		f := cmd.Flags()
		q := pricing.Query{}
		q.Product, _ = f.GetString("product")
		q.SizeGrade, _ = f.GetString("size-grade")
		if q.Product == "" {
			return eris.New("suggest: --product is required")
		}

		market, _ := f.GetString("market")
		if q.Market, err = model.ParseMarket(market); err != nil {
			return err
		}
		incoterm, _ := f.GetString("incoterm")
		if q.Incoterm, err = model.ParseIncoterm(incoterm); err != nil {
			return err
		}

		tr := newTracker(st)
		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "suggest")
		}

		s := pricing.Suggest(offers, q, tr.Today())
		if s == nil {
			fmt.Fprintln(os.Stderr, "No comparable offers in the last 30 days.")
			return nil
		}

		w := newTable(os.Stdout)
		_, _ = fmt.Fprintf(w, "Median:\t%s/kg\n", usd(s.Median))
		_, _ = fmt.Fprintf(w, "Min:\t%s/kg\n", usd(s.Min))
		_, _ = fmt.Fprintf(w, "Max:\t%s/kg\n", usd(s.Max))
		_ = w.Flush()
		return nil
	},
}

func init() {
	f := suggestCmd.Flags()
	f.String("product", "", "product (required)")
	f.String("market", "Morocco", "market")
	f.String("incoterm", "CFR", "incoterm")
	f.String("size-grade", "", "size or grade, e.g. 16/20")
	rootCmd.AddCommand(suggestCmd)
}
