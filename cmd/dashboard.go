package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/alerts"
	"github.com/eurotrade/salesdesk/internal/analytics"
	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/scoring"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show pipeline KPIs, priorities and alerts",
	Long:  "Headline metrics, prospects ranked by score with next-best actions, due follow-ups and offers expiring within 3 days.",
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
			return eris.Wrap(err, "dashboard")
		}
		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "dashboard")
		}

		engine, err := loadScoringEngine()
		if err != nil {
			return eris.Wrap(err, "dashboard")
		}
		today := tr.Today()

		formatKPIs(analytics.ComputeKPIs(prospects))
		fmt.Println()
		formatScores(engine, prospects, offers, today)

		due := alerts.DueFollowUps(prospects, today)
		expiring := alerts.ExpiringOffers(offers, today)
		if len(due) > 0 {
			fmt.Println()
			formatDueFollowUps(due, today)
		}
		if len(expiring) > 0 {
			fmt.Println()
			formatExpiringOffers(expiring)
		}

		if eur, _ := cmd.Flags().GetBool("eur"); eur {
			rate, source := newFxClient(st).USDEUR(ctx)
			fmt.Printf("\nUSD/EUR rate: %.4f (%s)\n", rate, source)
		}
		return nil
	},
}

func formatKPIs(k analytics.KPIs) {
	w := newTable(os.Stdout)
	_, _ = fmt.Fprintf(w, "Prospects:\t%d\n", k.Prospects)
	_, _ = fmt.Fprintf(w, "Offers sent:\t%d\n", k.OffersSent)
	_, _ = fmt.Fprintf(w, "Responses:\t%d\t(%s)\n", k.Responses, pct(k.ResponseRate))
	_, _ = fmt.Fprintf(w, "Signed:\t%d\t(%s)\n", k.Signed, pct(k.ConversionRate))
	_ = w.Flush()
}

type scoredProspect struct {
	prospect model.Prospect
	result   scoring.Result
}

// scoreProspects scores every prospect and sorts by score descending,
// preserving input order on ties.
func scoreProspects(engine *scoring.Engine, prospects []model.Prospect, offers []model.Offer, today string) []scoredProspect {
	scored := make([]scoredProspect, 0, len(prospects))
	for _, p := range prospects {
		scored = append(scored, scoredProspect{p, engine.Score(p, offers, today)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].result.Score > scored[j].result.Score
	})
	return scored
}

func formatScores(engine *scoring.Engine, prospects []model.Prospect, offers []model.Offer, today string) {
	open := make([]model.Prospect, 0, len(prospects))
	for _, p := range prospects {
		if !p.Status.Closed() {
			open = append(open, p)
		}
	}
	scored := scoreProspects(engine, open, offers, today)

	w := newTable(os.Stdout)
	_, _ = fmt.Fprintln(w, "ID\tCLIENT\tSTATUS\tSCORE\tGRADE\tNEXT BEST ACTION")
	_, _ = fmt.Fprintln(w, "--\t------\t------\t-----\t-----\t----------------")
	for _, s := range scored {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.prospect.ID,
			truncate(s.prospect.Client, 30),
			s.prospect.Status,
			s.result.Score,
			s.result.Grade,
			s.result.NextBestAction,
		)
	}
	_ = w.Flush()
}

func formatDueFollowUps(due []model.Prospect, today string) {
	fmt.Printf("Follow-ups due (%d):\n", len(due))
	w := newTable(os.Stdout)
	for _, p := range due {
		sla := ""
		if kind, ok := alerts.FollowUpDue(p, today); ok {
			sla = kind
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", p.ID, truncate(p.Client, 30), p.NextFollowUpDate, sla)
	}
	_ = w.Flush()
}

func formatExpiringOffers(expiring []model.Offer) {
	fmt.Printf("Offers expiring within 3 days (%d):\n", len(expiring))
	w := newTable(os.Stdout)
	for _, o := range expiring {
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s/kg\tsent %s, valid %d days\n",
			o.ID, truncate(o.Client, 30), truncate(o.Product, 30),
			usd(o.PricePerKgUSD), o.OfferDate, o.ValidityDays)
	}
	_ = w.Flush()
}

func init() {
	dashboardCmd.Flags().Bool("eur", false, "also show the cached USD/EUR rate")
	rootCmd.AddCommand(dashboardCmd)
}
