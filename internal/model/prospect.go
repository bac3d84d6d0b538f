// Package model defines the persisted entities of the sales pipeline:
// prospects, offers, reference lists, and the cached exchange rate.
// Statuses, markets and trade terms are closed string types so that the
// scoring and cascade tables can match on them exhaustively.
package model

import "github.com/rotisserie/eris"

// Market is the destination market of a prospect or offer.
type Market string

const (
	MarketMorocco    Market = "Morocco"
	MarketGCC        Market = "GCC"
	MarketWestAfrica Market = "West Africa"
	MarketOther      Market = "Other"
)

// Markets lists all valid markets in display order.
func Markets() []Market {
	return []Market{MarketMorocco, MarketGCC, MarketWestAfrica, MarketOther}
}

// ParseMarket converts a string to a Market.
func ParseMarket(s string) (Market, error) {
	switch Market(s) {
	case MarketMorocco, MarketGCC, MarketWestAfrica, MarketOther:
		return Market(s), nil
	}
	return "", eris.Errorf("model: unknown market %q", s)
}

// ProspectStatus is the pipeline stage of a prospect.
type ProspectStatus string

const (
	ProspectToQualify   ProspectStatus = "To qualify"
	ProspectOfferSent   ProspectStatus = "Offer sent"
	ProspectNegotiating ProspectStatus = "Negotiating"
	ProspectLost        ProspectStatus = "Lost"
	ProspectSigned      ProspectStatus = "Signed"
)

// ParseProspectStatus converts a string to a ProspectStatus.
func ParseProspectStatus(s string) (ProspectStatus, error) {
	switch ProspectStatus(s) {
	case ProspectToQualify, ProspectOfferSent, ProspectNegotiating, ProspectLost, ProspectSigned:
		return ProspectStatus(s), nil
	}
	return "", eris.Errorf("model: unknown prospect status %q", s)
}

// Closed returns true for terminal stages that no longer need follow-up.
func (s ProspectStatus) Closed() bool {
	return s == ProspectSigned || s == ProspectLost
}

// LossReason explains why a prospect was lost.
type LossReason string

const (
	LossPrice        LossReason = "Price"
	LossAvailability LossReason = "Availability"
	LossLeadTime     LossReason = "Lead time"
	LossQuality      LossReason = "Quality"
	LossTerms        LossReason = "Terms"
	LossOther        LossReason = "Other"
)

// ParseLossReason converts a string to a LossReason. The empty string is
// valid and means "not lost / not recorded".
func ParseLossReason(s string) (LossReason, error) {
	switch LossReason(s) {
	case "", LossPrice, LossAvailability, LossLeadTime, LossQuality, LossTerms, LossOther:
		return LossReason(s), nil
	}
	return "", eris.Errorf("model: unknown loss reason %q", s)
}

// YesNo is a persisted boolean flag. The empty value is treated as No.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// ParseYesNo converts a string to a YesNo flag.
func ParseYesNo(s string) (YesNo, error) {
	switch YesNo(s) {
	case Yes, No:
		return YesNo(s), nil
	case "":
		return No, nil
	}
	return "", eris.Errorf("model: expected Yes or No, got %q", s)
}

// Bool reports whether the flag is set.
func (y YesNo) Bool() bool { return y == Yes }

// Prospect is a tracked potential buyer and its pipeline state.
// All dates are ISO "YYYY-MM-DD" strings; empty means absent.
type Prospect struct {
	ID               string         `json:"id"`
	Client           string         `json:"client"`
	Market           Market         `json:"market"`
	Product          string         `json:"product"`
	FirstContactDate string         `json:"first_contact_date"`
	OfferSent        YesNo          `json:"offer_sent"`
	OfferDate        string         `json:"offer_date,omitempty"`
	AmountUSD        *float64       `json:"amount_usd,omitempty"`
	Status           ProspectStatus `json:"status"`
	NextFollowUpDate string         `json:"next_follow_up_date,omitempty"`
	ClientResponded  YesNo          `json:"client_responded"`
	ResponseDate     string         `json:"response_date,omitempty"`
	LossReason       LossReason     `json:"loss_reason,omitempty"`
	Supplier         string         `json:"supplier,omitempty"`
	SignatureDate    string         `json:"signature_date,omitempty"`
	Note             string         `json:"note,omitempty"`
}

// LastTouch is the most recent planned contact date: the next follow-up if
// set, otherwise the first contact date. Empty when neither is recorded.
func (p Prospect) LastTouch() string {
	if p.NextFollowUpDate != "" {
		return p.NextFollowUpDate
	}
	return p.FirstContactDate
}
