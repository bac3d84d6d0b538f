package analytics

import (
	"sort"

	"github.com/eurotrade/salesdesk/internal/dates"
	"github.com/eurotrade/salesdesk/internal/model"
)

// KPIs are the headline pipeline metrics. Rates are fractions of the
// prospects with an offer sent, zero when no offer went out yet.
type KPIs struct {
	Prospects      int     `json:"prospects"`
	OffersSent     int     `json:"offers_sent"`
	Responses      int     `json:"responses"`
	Signed         int     `json:"signed"`
	ResponseRate   float64 `json:"response_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ComputeKPIs derives the headline metrics from the prospect list.
func ComputeKPIs(prospects []model.Prospect) KPIs {
	k := KPIs{Prospects: len(prospects)}
	for _, p := range prospects {
		if p.OfferSent.Bool() {
			k.OffersSent++
		}
		if p.ClientResponded.Bool() {
			k.Responses++
		}
		if p.Status == model.ProspectSigned {
			k.Signed++
		}
	}
	if k.OffersSent > 0 {
		k.ResponseRate = float64(k.Responses) / float64(k.OffersSent)
		k.ConversionRate = float64(k.Signed) / float64(k.OffersSent)
	}
	return k
}

// ClientMargin is the per-client accepted-offer rollup. AvgMarginPerKg is
// maintained incrementally over the accepted offers that carry cost data;
// MarginSamples says how many contributed.
type ClientMargin struct {
	Client         string  `json:"client"`
	Accepted       int     `json:"accepted"`
	AvgMarginPerKg float64 `json:"avg_margin_per_kg"`
	MarginSamples  int     `json:"margin_samples"`
}

// AcceptedByClient groups accepted offers per client with a running-average
// margin per kg, sorted by accepted count descending then client name.
func AcceptedByClient(offers []model.Offer) []ClientMargin {
	byClient := make(map[string]*ClientMargin)
	var order []string
	for _, o := range offers {
		if o.Status != model.OfferAccepted {
			continue
		}
		cm, ok := byClient[o.Client]
		if !ok {
			cm = &ClientMargin{Client: o.Client}
			byClient[o.Client] = cm
			order = append(order, o.Client)
		}
		cm.Accepted++
		if margin, ok := o.MarginPerKg(); ok {
			cm.AvgMarginPerKg = (cm.AvgMarginPerKg*float64(cm.MarginSamples) + margin) / float64(cm.MarginSamples+1)
			cm.MarginSamples++
		}
	}

	out := make([]ClientMargin, 0, len(order))
	for _, c := range order {
		out = append(out, *byClient[c])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Accepted != out[j].Accepted {
			return out[i].Accepted > out[j].Accepted
		}
		return out[i].Client < out[j].Client
	})
	return out
}

// MarketShare is the per-market share of accepted offers.
type MarketShare struct {
	Market   model.Market `json:"market"`
	Accepted int          `json:"accepted"`
	Share    float64      `json:"share"`
}

// AcceptedByMarket groups accepted offers per market, in the canonical
// market order, with each market's share of the accepted total.
func AcceptedByMarket(offers []model.Offer) []MarketShare {
	counts := make(map[model.Market]int)
	total := 0
	for _, o := range offers {
		if o.Status == model.OfferAccepted {
			counts[o.Market]++
			total++
		}
	}

	var out []MarketShare
	for _, m := range model.Markets() {
		n := counts[m]
		if n == 0 {
			continue
		}
		out = append(out, MarketShare{Market: m, Accepted: n, Share: float64(n) / float64(total)})
	}
	return out
}

// SeasonalMatrix sums price*volume of accepted offers per product and
// month bucket.
func SeasonalMatrix(offers []model.Offer) map[string]map[string]float64 {
	matrix := make(map[string]map[string]float64)
	for _, o := range offers {
		if o.Status != model.OfferAccepted {
			continue
		}
		month := dates.MonthBucket(o.OfferDate)
		if month == "" {
			continue
		}
		if matrix[o.Product] == nil {
			matrix[o.Product] = make(map[string]float64)
		}
		matrix[o.Product][month] += o.Value()
	}
	return matrix
}

// Months returns the sorted union of month buckets in a seasonal matrix.
func Months(matrix map[string]map[string]float64) []string {
	seen := make(map[string]bool)
	var months []string
	for _, byMonth := range matrix {
		for m := range byMonth {
			if !seen[m] {
				seen[m] = true
				months = append(months, m)
			}
		}
	}
	sort.Strings(months)
	return months
}

// ClientPerformance is the per-client prospect rollup of the dashboard.
type ClientPerformance struct {
	Client    string  `json:"client"`
	Offers    int     `json:"offers"`
	Responses int     `json:"responses"`
	Signed    int     `json:"signed"`
	SignedUSD float64 `json:"signed_usd"`
}

// PerformanceByClient rolls prospects up per client, sorted by signed USD
// descending then client name.
func PerformanceByClient(prospects []model.Prospect) []ClientPerformance {
	byClient := make(map[string]*ClientPerformance)
	var order []string
	for _, p := range prospects {
		cp, ok := byClient[p.Client]
		if !ok {
			cp = &ClientPerformance{Client: p.Client}
			byClient[p.Client] = cp
			order = append(order, p.Client)
		}
		if p.OfferSent.Bool() {
			cp.Offers++
		}
		if p.ClientResponded.Bool() {
			cp.Responses++
		}
		if p.Status == model.ProspectSigned {
			cp.Signed++
			if p.AmountUSD != nil {
				cp.SignedUSD += *p.AmountUSD
			}
		}
	}

	out := make([]ClientPerformance, 0, len(order))
	for _, c := range order {
		out = append(out, *byClient[c])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SignedUSD != out[j].SignedUSD {
			return out[i].SignedUSD > out[j].SignedUSD
		}
		return out[i].Client < out[j].Client
	})
	return out
}

// MonthRevenue is one bucket of the signed-sales series.
type MonthRevenue struct {
	Month string  `json:"month"`
	USD   float64 `json:"usd"`
}

// SignedByMonth sums signed prospect amounts per signature month, sorted
// chronologically.
func SignedByMonth(prospects []model.Prospect) []MonthRevenue {
	acc := make(map[string]float64)
	for _, p := range prospects {
		if p.Status != model.ProspectSigned || p.SignatureDate == "" || p.AmountUSD == nil {
			continue
		}
		month := dates.MonthBucket(p.SignatureDate)
		if month == "" {
			continue
		}
		acc[month] += *p.AmountUSD
	}

	out := make([]MonthRevenue, 0, len(acc))
	for m, usd := range acc {
		out = append(out, MonthRevenue{Month: m, USD: usd})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// LossReasons counts lost-deal causes over all prospects that record one.
func LossReasons(prospects []model.Prospect) map[model.LossReason]int {
	counts := make(map[model.LossReason]int)
	for _, p := range prospects {
		if p.LossReason != "" {
			counts[p.LossReason]++
		}
	}
	return counts
}
