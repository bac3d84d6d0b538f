package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/scoring"
)

// money formats USD amounts with thousands separators for table output.
var money = message.NewPrinter(language.English)

func usd(v float64) string {
	return money.Sprintf("$%.2f", v)
}

func usdPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return usd(*v)
}

func kg(v float64) string {
	return money.Sprintf("%.0f kg", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func writeCSV(out io.Writer, header []string, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// loadScoringEngine builds the engine from the configured weights file,
// falling back to the default blend when none is set.
func loadScoringEngine() (*scoring.Engine, error) {
	if cfg.Scoring.WeightsFile == "" {
		return scoring.NewEngine(scoring.DefaultWeights()), nil
	}
	w, err := scoring.LoadWeights(cfg.Scoring.WeightsFile)
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(w), nil
}

// parseFloatArg parses a positional numeric argument; unlike the optional
// flag parser, an empty string is an error.
func parseFloatArg(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func yesNoFlag(s string) (model.YesNo, error) {
	if s == "" {
		return "", nil
	}
	return model.ParseYesNo(s)
}
