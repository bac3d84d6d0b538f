// Package analytics provides the table-level filters and groupings behind
// the dashboard views. Everything here is a pure function over the
// in-memory collections, recomputed on every read.
package analytics

import (
	"strings"

	"github.com/eurotrade/salesdesk/internal/model"
)

// ProspectFilter narrows the prospect list. Zero-valued fields impose no
// constraint. Text fields match as case-insensitive substrings, enum and
// date fields match exactly, numeric bounds are inclusive.
type ProspectFilter struct {
	Client           string
	Product          string
	Market           model.Market
	Status           model.ProspectStatus
	FirstContactDate string
	MinAmountUSD     float64
	MaxAmountUSD     float64
}

// Match reports whether p satisfies every set constraint.
func (f ProspectFilter) Match(p model.Prospect) bool {
	if !containsFold(p.Client, f.Client) || !containsFold(p.Product, f.Product) {
		return false
	}
	if f.Market != "" && p.Market != f.Market {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.FirstContactDate != "" && p.FirstContactDate != f.FirstContactDate {
		return false
	}
	amount := 0.0
	if p.AmountUSD != nil {
		amount = *p.AmountUSD
	}
	if f.MinAmountUSD > 0 && amount < f.MinAmountUSD {
		return false
	}
	if f.MaxAmountUSD > 0 && amount > f.MaxAmountUSD {
		return false
	}
	return true
}

// FilterProspects returns the prospects matching f, in input order.
func FilterProspects(prospects []model.Prospect, f ProspectFilter) []model.Prospect {
	var out []model.Prospect
	for _, p := range prospects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// OfferFilter narrows the offer list, with the same field semantics as
// ProspectFilter.
type OfferFilter struct {
	Client      string
	Product     string
	SizeGrade   string
	Market      model.Market
	Incoterm    model.Incoterm
	Status      model.OfferStatus
	OfferDate   string
	MinPriceUSD float64
	MaxPriceUSD float64
	MinVolumeKg float64
	MaxVolumeKg float64
}

// Match reports whether o satisfies every set constraint.
func (f OfferFilter) Match(o model.Offer) bool {
	if !containsFold(o.Client, f.Client) || !containsFold(o.Product, f.Product) {
		return false
	}
	if f.SizeGrade != "" && o.SizeGrade != f.SizeGrade {
		return false
	}
	if f.Market != "" && o.Market != f.Market {
		return false
	}
	if f.Incoterm != "" && o.Incoterm != f.Incoterm {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.OfferDate != "" && o.OfferDate != f.OfferDate {
		return false
	}
	if f.MinPriceUSD > 0 && o.PricePerKgUSD < f.MinPriceUSD {
		return false
	}
	if f.MaxPriceUSD > 0 && o.PricePerKgUSD > f.MaxPriceUSD {
		return false
	}
	if f.MinVolumeKg > 0 && o.VolumeKg < f.MinVolumeKg {
		return false
	}
	if f.MaxVolumeKg > 0 && o.VolumeKg > f.MaxVolumeKg {
		return false
	}
	return true
}

// FilterOffers returns the offers matching f, in input order.
func FilterOffers(offers []model.Offer, f OfferFilter) []model.Offer {
	var out []model.Offer
	for _, o := range offers {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// containsFold is a case-insensitive substring check; an empty needle
// always matches.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
