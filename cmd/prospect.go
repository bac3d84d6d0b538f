package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/eurotrade/salesdesk/internal/analytics"
	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/service"
)

var prospectCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Manage prospects",
	Long:  "Commands for adding, listing and updating prospects in the pipeline.",
}

// -- prospect add --

var prospectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a prospect",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		f := cmd.Flags()
		in := service.ProspectInput{}
		in.Client, _ = f.GetString("client")
		in.Product, _ = f.GetString("product")
		in.FirstContactDate, _ = f.GetString("first-contact")
		in.OfferDate, _ = f.GetString("offer-date")
		in.NextFollowUpDate, _ = f.GetString("next-follow-up")
		in.ResponseDate, _ = f.GetString("response-date")
		in.Supplier, _ = f.GetString("supplier")
		in.SignatureDate, _ = f.GetString("signature-date")
		in.Note, _ = f.GetString("note")

		if s, _ := f.GetString("market"); s != "" {
			if in.Market, err = model.ParseMarket(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("status"); s != "" {
			if in.Status, err = model.ParseProspectStatus(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("offer-sent"); s != "" {
			if in.OfferSent, err = yesNoFlag(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("responded"); s != "" {
			if in.ClientResponded, err = yesNoFlag(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("loss-reason"); s != "" {
			if in.LossReason, err = model.ParseLossReason(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("amount"); s != "" {
			if in.AmountUSD, err = parseOptionalFloat(s); err != nil {
				return err
			}
		}

		p, err := newTracker(st).AddProspect(ctx, in)
		if err != nil {
			return eris.Wrap(err, "prospect add")
		}

		fmt.Printf("Added %s (%s, %s)\n", p.ID, p.Client, p.Status)
		return nil
	},
}

// -- prospect list --

var prospectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prospects",
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
			return eris.Wrap(err, "prospect list")
		}

		f := cmd.Flags()
		filter := analytics.ProspectFilter{}
		filter.Client, _ = f.GetString("client")
		filter.Product, _ = f.GetString("product")
		filter.FirstContactDate, _ = f.GetString("first-contact")
		filter.MinAmountUSD, _ = f.GetFloat64("min-amount")
		filter.MaxAmountUSD, _ = f.GetFloat64("max-amount")
		if s, _ := f.GetString("market"); s != "" {
			if filter.Market, err = model.ParseMarket(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("status"); s != "" {
			if filter.Status, err = model.ParseProspectStatus(s); err != nil {
				return err
			}
		}

		prospects = analytics.FilterProspects(prospects, filter)
		if len(prospects) == 0 {
			fmt.Fprintln(os.Stderr, "No prospects found.")
			return nil
		}

		offers, err := tr.Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "prospect list")
		}
		engine, err := loadScoringEngine()
		if err != nil {
			return eris.Wrap(err, "prospect list")
		}
		scored := scoreProspects(engine, prospects, offers, tr.Today())

		format, _ := f.GetString("format")
		if format == "csv" {
			return writeCSV(os.Stdout, prospectListHeader, prospectListRows(scored))
		}
		formatProspectList(scored)
		return nil
	},
}

// -- prospect show --

var prospectShowCmd = &cobra.Command{
	Use:   "show <prospect-id>",
	Short: "Show full details of a prospect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		prospects, err := newTracker(st).Prospects(ctx)
		if err != nil {
			return eris.Wrap(err, "prospect show")
		}
		for _, p := range prospects {
			if p.ID == args[0] {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
		}
		return eris.Errorf("prospect %s not found", args[0])
	},
}

// -- prospect update --

var prospectUpdateCmd = &cobra.Command{
	Use:   "update <prospect-id>",
	Short: "Update fields of a prospect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		f := cmd.Flags()
		patch := service.ProspectPatch{}
		if f.Changed("status") {
			s, _ := f.GetString("status")
			status, err := model.ParseProspectStatus(s)
			if err != nil {
				return err
			}
			patch.Status = &status
		}
		if f.Changed("next-follow-up") {
			s, _ := f.GetString("next-follow-up")
			patch.NextFollowUpDate = &s
		}
		if f.Changed("responded") {
			s, _ := f.GetString("responded")
			yn, err := yesNoFlag(s)
			if err != nil {
				return err
			}
			patch.ClientResponded = &yn
		}
		if f.Changed("response-date") {
			s, _ := f.GetString("response-date")
			patch.ResponseDate = &s
		}
		if f.Changed("loss-reason") {
			s, _ := f.GetString("loss-reason")
			reason, err := model.ParseLossReason(s)
			if err != nil {
				return err
			}
			patch.LossReason = &reason
		}
		if f.Changed("signature-date") {
			s, _ := f.GetString("signature-date")
			patch.SignatureDate = &s
		}
		if f.Changed("note") {
			s, _ := f.GetString("note")
			patch.Note = &s
		}

		p, err := newTracker(st).UpdateProspect(ctx, args[0], patch)
		if err != nil {
			return eris.Wrap(err, "prospect update")
		}

		fmt.Printf("Updated %s (%s, %s)\n", p.ID, p.Client, p.Status)
		return nil
	},
}

var prospectListHeader = []string{
	"id", "client", "market", "product", "first_contact", "offer_sent",
	"amount_usd", "status", "next_follow_up", "score", "grade", "next_best_action",
}

func prospectListRows(scored []scoredProspect) [][]string {
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		p := s.prospect
		amount := ""
		if p.AmountUSD != nil {
			amount = fmt.Sprintf("%.2f", *p.AmountUSD)
		}
		rows = append(rows, []string{
			p.ID, p.Client, string(p.Market), p.Product, p.FirstContactDate,
			string(p.OfferSent), amount, string(p.Status), p.NextFollowUpDate,
			fmt.Sprintf("%d", s.result.Score), string(s.result.Grade),
			s.result.NextBestAction,
		})
	}
	return rows
}

func formatProspectList(scored []scoredProspect) {
	w := newTable(os.Stdout)
	_, _ = fmt.Fprintln(w, "ID\tCLIENT\tMARKET\tPRODUCT\tFIRST CONTACT\tAMOUNT\tSTATUS\tSCORE\tGRADE\tNEXT BEST ACTION")
	_, _ = fmt.Fprintln(w, "--\t------\t------\t-------\t-------------\t------\t------\t-----\t-----\t----------------")
	for _, s := range scored {
		p := s.prospect
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			p.ID,
			truncate(p.Client, 30),
			p.Market,
			truncate(p.Product, 30),
			p.FirstContactDate,
			usdPtr(p.AmountUSD),
			p.Status,
			s.result.Score,
			s.result.Grade,
			s.result.NextBestAction,
		)
	}
	_ = w.Flush()
}

func init() {
	f := prospectAddCmd.Flags()
	f.String("client", "", "client name (required)")
	f.String("product", "", "product (required)")
	f.String("market", "", "market: Morocco, GCC, West Africa, Other")
	f.String("first-contact", "", "first contact date YYYY-MM-DD (default today)")
	f.String("offer-sent", "", "offer sent: Yes or No")
	f.String("offer-date", "", "offer date YYYY-MM-DD")
	f.String("amount", "", "estimated deal amount in USD")
	f.String("status", "", "status: To qualify, Offer sent, Negotiating, Lost, Signed")
	f.String("next-follow-up", "", "next follow-up date YYYY-MM-DD")
	f.String("responded", "", "client responded: Yes or No")
	f.String("response-date", "", "response date YYYY-MM-DD")
	f.String("loss-reason", "", "loss reason: Price, Availability, Lead time, Quality, Terms, Other")
	f.String("supplier", "", "supplier name")
	f.String("signature-date", "", "signature date YYYY-MM-DD")
	f.String("note", "", "free-form note")

	lf := prospectListCmd.Flags()
	lf.String("client", "", "filter by client substring")
	lf.String("product", "", "filter by product substring")
	lf.String("market", "", "filter by market")
	lf.String("status", "", "filter by status")
	lf.String("first-contact", "", "filter by exact first contact date")
	lf.Float64("min-amount", 0, "minimum amount USD")
	lf.Float64("max-amount", 0, "maximum amount USD")
	lf.String("format", "table", "output format: table or csv")

	uf := prospectUpdateCmd.Flags()
	uf.String("status", "", "new status")
	uf.String("next-follow-up", "", "next follow-up date YYYY-MM-DD")
	uf.String("responded", "", "client responded: Yes or No")
	uf.String("response-date", "", "response date YYYY-MM-DD")
	uf.String("loss-reason", "", "loss reason: Price, Availability, Lead time, Quality, Terms, Other")
	uf.String("signature-date", "", "signature date YYYY-MM-DD")
	uf.String("note", "", "free-form note")

	prospectCmd.AddCommand(prospectAddCmd)
	prospectCmd.AddCommand(prospectListCmd)
	prospectCmd.AddCommand(prospectShowCmd)
	prospectCmd.AddCommand(prospectUpdateCmd)
	rootCmd.AddCommand(prospectCmd)
}
