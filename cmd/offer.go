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

var offerCmd = &cobra.Command{
	Use:   "offer",
	Short: "Manage offers",
	Long:  "Commands for adding and updating USD/kg offers and linking them to prospects.",
}

// -- offer add --

var offerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an offer",
	Long:  "Records an offer and links it to a prospect. The price is checked against the trailing 30-day median for the same product, market and incoterm; deviations above 3% need --accept-deviation.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		f := cmd.Flags()
		in := service.OfferInput{}
		in.ProspectID, _ = f.GetString("prospect")
		in.Client, _ = f.GetString("client")
		in.Product, _ = f.GetString("product")
		in.SizeGrade, _ = f.GetString("size-grade")
		in.PricePerKgUSD, _ = f.GetFloat64("price")
		in.VolumeKg, _ = f.GetFloat64("volume")
		in.OfferDate, _ = f.GetString("offer-date")
		in.ValidityDays, _ = f.GetInt("validity-days")
		in.Note, _ = f.GetString("note")
		in.AcceptDeviation, _ = f.GetBool("accept-deviation")

		if s, _ := f.GetString("market"); s != "" {
			if in.Market, err = model.ParseMarket(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("incoterm"); s != "" {
			if in.Incoterm, err = model.ParseIncoterm(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("status"); s != "" {
			if in.Status, err = model.ParseOfferStatus(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("purchase-price"); s != "" {
			if in.PurchasePricePerKgUSD, err = parseOptionalFloat(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("freight"); s != "" {
			if in.FreightPerKgUSD, err = parseOptionalFloat(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("other-costs"); s != "" {
			if in.OtherCostsPerKgUSD, err = parseOptionalFloat(s); err != nil {
				return err
			}
		}

		o, suggestion, err := newTracker(st).AddOffer(ctx, in)
		if err != nil {
			var devErr *service.PriceDeviationError
			if eris.As(err, &devErr) {
				fmt.Fprintf(os.Stderr, "Price %s deviates %s from the 30-day median %s (range %s - %s).\n",
					usd(devErr.Proposed), pct(devErr.Delta), usd(devErr.Median),
					usd(suggestion.Min), usd(suggestion.Max))
				fmt.Fprintln(os.Stderr, "Re-run with --accept-deviation to record it anyway.")
				return eris.Wrap(err, "offer add")
			}
			return eris.Wrap(err, "offer add")
		}

		fmt.Printf("Added %s (%s, %s at %s/kg)\n", o.ID, o.Client, o.Product, usd(o.PricePerKgUSD))
		if suggestion != nil {
			fmt.Printf("30-day comparables: median %s, range %s - %s\n",
				usd(suggestion.Median), usd(suggestion.Min), usd(suggestion.Max))
		}
		if o.ProspectID != "" {
			fmt.Printf("Linked to prospect %s\n", o.ProspectID)
		}
		return nil
	},
}

// -- offer list --

var offerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List offers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		offers, err := newTracker(st).Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "offer list")
		}

		f := cmd.Flags()
		filter := analytics.OfferFilter{}
		filter.Client, _ = f.GetString("client")
		filter.Product, _ = f.GetString("product")
		filter.SizeGrade, _ = f.GetString("size-grade")
		filter.OfferDate, _ = f.GetString("offer-date")
		filter.MinPriceUSD, _ = f.GetFloat64("min-price")
		filter.MaxPriceUSD, _ = f.GetFloat64("max-price")
		filter.MinVolumeKg, _ = f.GetFloat64("min-volume")
		filter.MaxVolumeKg, _ = f.GetFloat64("max-volume")
		if s, _ := f.GetString("market"); s != "" {
			if filter.Market, err = model.ParseMarket(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("incoterm"); s != "" {
			if filter.Incoterm, err = model.ParseIncoterm(s); err != nil {
				return err
			}
		}
		if s, _ := f.GetString("status"); s != "" {
			if filter.Status, err = model.ParseOfferStatus(s); err != nil {
				return err
			}
		}

		offers = analytics.FilterOffers(offers, filter)
		if len(offers) == 0 {
			fmt.Fprintln(os.Stderr, "No offers found.")
			return nil
		}

		format, _ := f.GetString("format")
		if format == "csv" {
			return writeCSV(os.Stdout, offerListHeader, offerListRows(offers))
		}
		formatOfferList(offers)
		return nil
	},
}

// -- offer show --

var offerShowCmd = &cobra.Command{
	Use:   "show <offer-id>",
	Short: "Show full details of an offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		offers, err := newTracker(st).Offers(ctx)
		if err != nil {
			return eris.Wrap(err, "offer show")
		}
		for _, o := range offers {
			if o.ID == args[0] {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(o)
			}
		}
		return eris.Errorf("offer %s not found", args[0])
	},
}

// -- offer status --

var offerStatusCmd = &cobra.Command{
	Use:   "status <offer-id> <new-status>",
	Short: "Update an offer's status",
	Long:  "Sets the offer status and cascades the change onto the linked prospect: Accepted signs it, Negotiating moves it to negotiating, Sent promotes a to-qualify prospect.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, err := model.ParseOfferStatus(args[1])
		if err != nil {
			return err
		}

		o, err := newTracker(st).UpdateOfferStatus(ctx, args[0], status)
		if err != nil {
			return eris.Wrap(err, "offer status")
		}

		fmt.Printf("Updated %s to %s\n", o.ID, o.Status)
		return nil
	},
}

var offerListHeader = []string{
	"id", "prospect", "client", "market", "product", "size_grade",
	"incoterm", "price_usd_kg", "volume_kg", "offer_date", "status",
}

func offerListRows(offers []model.Offer) [][]string {
	rows := make([][]string, 0, len(offers))
	for _, o := range offers {
		rows = append(rows, []string{
			o.ID, o.ProspectID, o.Client, string(o.Market), o.Product,
			o.SizeGrade, string(o.Incoterm),
			fmt.Sprintf("%.2f", o.PricePerKgUSD),
			fmt.Sprintf("%.0f", o.VolumeKg),
			o.OfferDate, string(o.Status),
		})
	}
	return rows
}

func formatOfferList(offers []model.Offer) {
	w := newTable(os.Stdout)
	_, _ = fmt.Fprintln(w, "ID\tCLIENT\tPRODUCT\tSIZE\tINCOTERM\tPRICE/KG\tVOLUME\tDATE\tSTATUS\tMARGIN/KG")
	_, _ = fmt.Fprintln(w, "--\t------\t-------\t----\t--------\t--------\t------\t----\t------\t---------")
	for _, o := range offers {
		margin := ""
		if m, ok := o.MarginPerKg(); ok {
			margin = usd(m)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			truncate(o.Client, 30),
			truncate(o.Product, 30),
			o.SizeGrade,
			o.Incoterm,
			usd(o.PricePerKgUSD),
			kg(o.VolumeKg),
			o.OfferDate,
			o.Status,
			margin,
		)
	}
	_ = w.Flush()
}

func init() {
	f := offerAddCmd.Flags()
	f.String("prospect", "", "prospect ID to link (default: most recent prospect of the client)")
	f.String("client", "", "client name (required)")
	f.String("product", "", "product (required)")
	f.String("size-grade", "", "size or grade, e.g. 16/20")
	f.String("market", "", "market: Morocco, GCC, West Africa, Other")
	f.String("incoterm", "", "incoterm: FOB, CFR, CIF, EXW (default CFR)")
	f.Float64("price", 0, "price in USD per kg (required)")
	f.Float64("volume", 0, "volume in kg (required)")
	f.String("offer-date", "", "offer date YYYY-MM-DD (default today)")
	f.Int("validity-days", 0, "validity in days")
	f.String("status", "", "status: Sent, Negotiating, Accepted, Rejected (default Sent)")
	f.String("purchase-price", "", "purchase price USD per kg")
	f.String("freight", "", "freight cost USD per kg")
	f.String("other-costs", "", "other costs USD per kg")
	f.String("note", "", "free-form note")
	f.Bool("accept-deviation", false, "record the offer even when the price deviates >3% from the 30-day median")

	lf := offerListCmd.Flags()
	lf.String("client", "", "filter by client substring")
	lf.String("product", "", "filter by product substring")
	lf.String("size-grade", "", "filter by exact size/grade")
	lf.String("market", "", "filter by market")
	lf.String("incoterm", "", "filter by incoterm")
	lf.String("status", "", "filter by status")
	lf.String("offer-date", "", "filter by exact offer date")
	lf.Float64("min-price", 0, "minimum price USD/kg")
	lf.Float64("max-price", 0, "maximum price USD/kg")
	lf.Float64("min-volume", 0, "minimum volume kg")
	lf.Float64("max-volume", 0, "maximum volume kg")
	lf.String("format", "table", "output format: table or csv")

	offerCmd.AddCommand(offerAddCmd)
	offerCmd.AddCommand(offerListCmd)
	offerCmd.AddCommand(offerShowCmd)
	offerCmd.AddCommand(offerStatusCmd)
	rootCmd.AddCommand(offerCmd)
}
