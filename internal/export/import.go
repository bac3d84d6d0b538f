package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/eurotrade/salesdesk/internal/model"
)

// RowError records a spreadsheet row that could not be imported.
type RowError struct {
	Row    int
	Reason string
}

// ReadProspectsXLSX reads prospect rows from the first sheet of a
// spreadsheet laid out like the exported Prospects sheet. Rows that fail
// to parse are reported, not fatal; blank rows are skipped silently.
// IDs in the file are ignored so the caller can re-allocate them.
func ReadProspectsXLSX(path string) ([]model.Prospect, []RowError, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "export: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("export: %s has no sheets", path)
	}

	var (
		prospects []model.Prospect
		rowErrs   []RowError
	)
	for i, row := range f.Sheets[0].Rows {
		if i == 0 {
			continue // header
		}
		cells := rowStrings(row, len(prospectHeader))
		if blankRow(cells) {
			continue
		}
		p, err := parseProspectRow(cells)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		prospects = append(prospects, p)
	}
	return prospects, rowErrs, nil
}

func parseProspectRow(c []string) (model.Prospect, error) {
	var p model.Prospect

	p.Client = strings.TrimSpace(c[1])
	if p.Client == "" {
		return p, eris.New("missing client")
	}
	p.Product = strings.TrimSpace(c[3])
	if p.Product == "" {
		return p, eris.New("missing product")
	}

	market, err := model.ParseMarket(orDefault(c[2], string(model.MarketOther)))
	if err != nil {
		return p, err
	}
	p.Market = market

	p.FirstContactDate = strings.TrimSpace(c[4])

	offerSent, err := model.ParseYesNo(orDefault(c[5], string(model.No)))
	if err != nil {
		return p, err
	}
	p.OfferSent = offerSent
	p.OfferDate = strings.TrimSpace(c[6])

	if amount := strings.TrimSpace(c[7]); amount != "" {
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return p, eris.Wrap(err, "amount")
		}
		p.AmountUSD = &v
	}

	status, err := model.ParseProspectStatus(orDefault(c[8], string(model.ProspectToQualify)))
	if err != nil {
		return p, err
	}
	p.Status = status

	p.NextFollowUpDate = strings.TrimSpace(c[9])

	responded, err := model.ParseYesNo(orDefault(c[10], string(model.No)))
	if err != nil {
		return p, err
	}
	p.ClientResponded = responded
	p.ResponseDate = strings.TrimSpace(c[11])

	if reason := strings.TrimSpace(c[12]); reason != "" {
		lr, err := model.ParseLossReason(reason)
		if err != nil {
			return p, err
		}
		p.LossReason = lr
	}

	p.Supplier = strings.TrimSpace(c[13])
	p.SignatureDate = strings.TrimSpace(c[14])
	p.Note = strings.TrimSpace(c[15])
	return p, nil
}

// rowStrings pads short rows so positional access is safe.
func rowStrings(row *xlsx.Row, width int) []string {
	cells := make([]string, width)
	for j, cell := range row.Cells {
		if j >= width {
			break
		}
		cells[j] = cell.String()
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
