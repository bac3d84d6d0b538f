// Package export writes the pipeline out to Excel workbooks and JSON
// backups, and reads prospect rows back in from spreadsheets.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/eurotrade/salesdesk/internal/model"
)

const (
	sheetProspects  = "Prospects"
	sheetOffers     = "Offers"
	sheetReferences = "References"
)

var prospectHeader = []string{
	"ID", "Client", "Market", "Product", "First Contact", "Offer Sent",
	"Offer Date", "Amount USD", "Status", "Next Follow-up", "Responded",
	"Response Date", "Loss Reason", "Supplier", "Signature Date", "Note",
}

var offerHeader = []string{
	"ID", "Prospect", "Client", "Market", "Product", "Size/Grade",
	"Incoterm", "Price USD/kg", "Volume kg", "Offer Date", "Validity Days",
	"Status", "Purchase USD/kg", "Freight USD/kg", "Other USD/kg", "Note",
}

// WriteXLSX writes a three-sheet workbook to path: prospects, offers and
// the reference lists.
func WriteXLSX(path string, prospects []model.Prospect, offers []model.Offer, refs model.Refs) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetProspects)
	if _, err := f.NewSheet(sheetOffers); err != nil {
		return eris.Wrap(err, "export: create offers sheet")
	}
	if _, err := f.NewSheet(sheetReferences); err != nil {
		return eris.Wrap(err, "export: create references sheet")
	}

	if err := writeRows(f, sheetProspects, prospectRows(prospects)); err != nil {
		return err
	}
	if err := writeRows(f, sheetOffers, offerRows(offers)); err != nil {
		return err
	}
	if err := writeRows(f, sheetReferences, refRows(refs)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return eris.Wrap(err, "export: cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return eris.Wrapf(err, "export: write %s row %d", sheet, i+1)
		}
	}
	return nil
}

func prospectRows(prospects []model.Prospect) [][]interface{} {
	rows := [][]interface{}{toRow(prospectHeader)}
	for _, p := range prospects {
		rows = append(rows, []interface{}{
			p.ID, p.Client, string(p.Market), p.Product, p.FirstContactDate,
			string(p.OfferSent), p.OfferDate, floatCell(p.AmountUSD),
			string(p.Status), p.NextFollowUpDate, string(p.ClientResponded),
			p.ResponseDate, string(p.LossReason), p.Supplier,
			p.SignatureDate, p.Note,
		})
	}
	return rows
}

func offerRows(offers []model.Offer) [][]interface{} {
	rows := [][]interface{}{toRow(offerHeader)}
	for _, o := range offers {
		rows = append(rows, []interface{}{
			o.ID, o.ProspectID, o.Client, string(o.Market), o.Product,
			o.SizeGrade, string(o.Incoterm), o.PricePerKgUSD, o.VolumeKg,
			o.OfferDate, intCell(o.ValidityDays), string(o.Status),
			floatCell(o.PurchasePricePerKgUSD), floatCell(o.FreightPerKgUSD),
			floatCell(o.OtherCostsPerKgUSD), o.Note,
		})
	}
	return rows
}

func refRows(refs model.Refs) [][]interface{} {
	rows := [][]interface{}{{"Type", "Value"}}
	for _, c := range refs.Clients {
		rows = append(rows, []interface{}{"Client", c})
	}
	for _, p := range refs.Products {
		rows = append(rows, []interface{}{"Product", p})
	}
	for _, b := range refs.Benchmarks {
		rows = append(rows, []interface{}{
			"Benchmark",
			fmt.Sprintf("%s | %s | %s | %s | %.2f USD/kg",
				b.Product, b.Market, b.Incoterm, b.Month, b.RefPriceUSDKg),
		})
	}
	return rows
}

func toRow(header []string) []interface{} {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

// floatCell keeps absent optional amounts as empty cells rather than zeros.
func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v int) interface{} {
	if v == 0 {
		return ""
	}
	return v
}
