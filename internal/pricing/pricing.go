// Package pricing suggests an offer price from recent comparable offers:
// the trailing-30-day median, min and max for a (product, market, incoterm,
// optional size grade) tuple.
package pricing

import (
	"math"
	"sort"

	"github.com/eurotrade/salesdesk/internal/dates"
	"github.com/eurotrade/salesdesk/internal/model"
)

// TrailingWindowDays is the comparable-offer lookback.
const TrailingWindowDays = 30

// DeviationThreshold is the relative gap to the suggested median above
// which a new offer price needs explicit confirmation.
const DeviationThreshold = 0.03

// Query selects comparable offers. SizeGrade is optional: when empty,
// offers of every grade (including ungraded) match; when set, only offers
// with the exact same grade match.
type Query struct {
	Product   string
	Market    model.Market
	Incoterm  model.Incoterm
	SizeGrade string
}

// Suggestion is the price envelope of the matched comparables.
type Suggestion struct {
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Suggest computes the suggestion for q over the offer history as of the
// given day. Returns nil when no offer matches.
func Suggest(offers []model.Offer, q Query, today string) *Suggestion {
	var prices []float64
	for _, o := range offers {
		if o.Product != q.Product || o.Market != q.Market || o.Incoterm != q.Incoterm {
			continue
		}
		if q.SizeGrade != "" && o.SizeGrade != q.SizeGrade {
			continue
		}
		d, ok := dates.DayDiff(today, o.OfferDate)
		if !ok || d > TrailingWindowDays {
			continue
		}
		prices = append(prices, o.PricePerKgUSD)
	}
	if len(prices) == 0 {
		return nil
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	return &Suggestion{
		Median: median(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// Deviation returns the relative gap between a proposed price and the
// suggested median.
func Deviation(price, median float64) float64 {
	if median == 0 {
		return 0
	}
	return math.Abs(price-median) / median
}

// median expects a sorted slice; even lengths average the two middle values.
func median(sorted []float64) float64 {
	m := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[m]
	}
	return (sorted[m-1] + sorted[m]) / 2
}
