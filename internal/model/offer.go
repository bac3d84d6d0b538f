package model

import "github.com/rotisserie/eris"

// OfferStatus is the lifecycle state of a price offer.
type OfferStatus string

const (
	OfferSent        OfferStatus = "Sent"
	OfferNegotiating OfferStatus = "Negotiating"
	OfferAccepted    OfferStatus = "Accepted"
	OfferRejected    OfferStatus = "Rejected"
)

// ParseOfferStatus converts a string to an OfferStatus.
func ParseOfferStatus(s string) (OfferStatus, error) {
	switch OfferStatus(s) {
	case OfferSent, OfferNegotiating, OfferAccepted, OfferRejected:
		return OfferStatus(s), nil
	}
	return "", eris.Errorf("model: unknown offer status %q", s)
}

// Open reports whether the offer is still on the table (counts toward a
// prospect's pipeline potential).
func (s OfferStatus) Open() bool {
	return s == OfferSent || s == OfferNegotiating
}

// Incoterm is the standardized trade term of an offer.
type Incoterm string

const (
	IncotermFOB Incoterm = "FOB"
	IncotermCFR Incoterm = "CFR"
	IncotermCIF Incoterm = "CIF"
	IncotermEXW Incoterm = "EXW"
)

// ParseIncoterm converts a string to an Incoterm.
func ParseIncoterm(s string) (Incoterm, error) {
	switch Incoterm(s) {
	case IncotermFOB, IncotermCFR, IncotermCIF, IncotermEXW:
		return Incoterm(s), nil
	}
	return "", eris.Errorf("model: unknown incoterm %q", s)
}

// Offer is a priced, dated proposal to a client. ProspectID is a weak
// back-reference: it is set at creation time and never required to resolve.
type Offer struct {
	ID            string      `json:"id"`
	ProspectID    string      `json:"prospect_id,omitempty"`
	Client        string      `json:"client"`
	Market        Market      `json:"market"`
	Product       string      `json:"product"`
	SizeGrade     string      `json:"size_grade,omitempty"`
	Incoterm      Incoterm    `json:"incoterm"`
	PricePerKgUSD float64     `json:"price_usd_kg"`
	VolumeKg      float64     `json:"volume_kg"`
	OfferDate     string      `json:"offer_date"`
	ValidityDays  int         `json:"validity_days,omitempty"`
	Status        OfferStatus `json:"status"`

	// Margin simulator inputs, display-only.
	PurchasePricePerKgUSD *float64 `json:"purchase_usd_kg,omitempty"`
	FreightPerKgUSD       *float64 `json:"freight_usd_kg,omitempty"`
	OtherCostsPerKgUSD    *float64 `json:"other_costs_usd_kg,omitempty"`

	Note string `json:"note,omitempty"`
}

// Value is the offer's notional value in USD.
func (o Offer) Value() float64 {
	return o.PricePerKgUSD * o.VolumeKg
}

// MarginPerKg returns the per-kg margin when a purchase price is recorded.
// Freight and other costs default to zero when absent.
func (o Offer) MarginPerKg() (float64, bool) {
	if o.PurchasePricePerKgUSD == nil {
		return 0, false
	}
	m := o.PricePerKgUSD - *o.PurchasePricePerKgUSD
	if o.FreightPerKgUSD != nil {
		m -= *o.FreightPerKgUSD
	}
	if o.OtherCostsPerKgUSD != nil {
		m -= *o.OtherCostsPerKgUSD
	}
	return m, true
}
