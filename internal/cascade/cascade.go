// Package cascade holds the rule table that propagates an offer status
// change onto the linked prospect's pipeline stage.
package cascade

import "github.com/eurotrade/salesdesk/internal/model"

// Apply returns the prospect status after its linked offer moves to
// offerStatus:
//
//	Accepted    -> Signed, unconditionally
//	Negotiating -> Negotiating, unconditionally
//	Sent        -> Offer sent, only from To qualify
//	Rejected    -> unchanged (explicit non-effect)
func Apply(current model.ProspectStatus, offerStatus model.OfferStatus) model.ProspectStatus {
	switch offerStatus {
	case model.OfferAccepted:
		return model.ProspectSigned
	case model.OfferNegotiating:
		return model.ProspectNegotiating
	case model.OfferSent:
		if current == model.ProspectToQualify {
			return model.ProspectOfferSent
		}
		return current
	case model.OfferRejected:
		return current
	}
	return current
}
