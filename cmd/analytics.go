package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/analytics"
)

// -- seasonal --

var seasonalCmd = &cobra.Command{
	Use:   "seasonal",
	Short: "Show accepted revenue by product and month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		offers, err := newTracker(st).Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "seasonal")
		}

		matrix := analytics.SeasonalMatrix(offers)
		if len(matrix) == 0 {
			fmt.Fprintln(os.Stderr, "No accepted offers yet.")
			return nil
		}

		months := analytics.Months(matrix)
		products := make([]string, 0, len(matrix))
		for p := range matrix {
			products = append(products, p)
		}
		sort.Strings(products)

		w := newTable(os.Stdout)
		_, _ = fmt.Fprint(w, "PRODUCT")
		for _, m := range months {
			_, _ = fmt.Fprintf(w, "\t%s", m)
		}
		_, _ = fmt.Fprintln(w)
		for _, p := range products {
			_, _ = fmt.Fprint(w, truncate(p, 30))
			for _, m := range months {
				if v := matrix[p][m]; v > 0 {
					_, _ = fmt.Fprintf(w, "\t%s", usd(v))
				} else {
					_, _ = fmt.Fprint(w, "\t")
				}
			}
			_, _ = fmt.Fprintln(w)
		}
		_ = w.Flush()
		return nil
	},
}

// -- clients --

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Show per-client performance and margins",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tr := newTracker(st)
		prospects, err := tr.Prospects(ctx)
		if err != nil {
			return eris.Wrap(err, "clients")
		}
		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "clients")
		}

		perf := analytics.PerformanceByClient(prospects)
		if len(perf) == 0 {
			fmt.Fprintln(os.Stderr, "No prospects yet.")
			return nil
		}

		margins := make(map[string]analytics.ClientMargin)
		for _, m := range analytics.AcceptedByClient(offers) {
			margins[m.Client] = m
		}

		w := newTable(os.Stdout)
		_, _ = fmt.Fprintln(w, "CLIENT\tOFFERS\tRESPONSES\tSIGNED\tSIGNED USD\tACCEPTED\tAVG MARGIN/KG")
		_, _ = fmt.Fprintln(w, "------\t------\t---------\t------\t----------\t--------\t-------------")
		for _, p := range perf {
			margin := ""
			accepted := 0
			if m, ok := margins[p.Client]; ok {
				accepted = m.Accepted
				if m.MarginSamples > 0 {
					margin = usd(m.AvgMarginPerKg)
				}
			}
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%d\t%s\n",
				truncate(p.Client, 30), p.Offers, p.Responses, p.Signed,
				usd(p.SignedUSD), accepted, margin)
		}
		_ = w.Flush()
		return nil
	},
}

// -- markets --

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "Show accepted-offer share by market",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tr := newTracker(st)
		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "markets")
		}
		prospects, err := tr.Prospects(ctx)
		if err != nil {
			return eris.Wrap(err, "markets")
		}

		w := newTable(os.Stdout)
		_, _ = fmt.Fprintln(w, "MARKET\tACCEPTED\tSHARE")
		_, _ = fmt.Fprintln(w, "------\t--------\t-----")
		for _, s := range analytics.AcceptedByMarket(offers) {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", s.Market, s.Accepted, pct(s.Share))
		}
		_ = w.Flush()

		if reasons := analytics.LossReasons(prospects); len(reasons) > 0 {
			fmt.Println()
			fmt.Println("Loss reasons:")
			w = newTable(os.Stdout)
			for reason, n := range reasons {
				_, _ = fmt.Fprintf(w, "  %s\t%d\n", reason, n)
			}
			_ = w.Flush()
		}

		if revenue := analytics.SignedByMonth(prospects); len(revenue) > 0 {
			fmt.Println()
			fmt.Println("Signed revenue by month:")
			w = newTable(os.Stdout)
			for _, r := range revenue {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", r.Month, usd(r.USD))
			}
			_ = w.Flush()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seasonalCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(marketsCmd)
}
