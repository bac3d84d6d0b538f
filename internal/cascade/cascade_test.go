package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eurotrade/salesdesk/internal/model"
)

var allProspectStatuses = []model.ProspectStatus{
	model.ProspectToQualify,
	model.ProspectOfferSent,
	model.ProspectNegotiating,
	model.ProspectLost,
	model.ProspectSigned,
}

func TestAcceptedAlwaysSigns(t *testing.T) {
	for _, current := range allProspectStatuses {
		assert.Equal(t, model.ProspectSigned, Apply(current, model.OfferAccepted), "from %s", current)
	}
}

func TestNegotiatingAlwaysNegotiates(t *testing.T) {
	for _, current := range allProspectStatuses {
		assert.Equal(t, model.ProspectNegotiating, Apply(current, model.OfferNegotiating), "from %s", current)
	}
}

func TestSentPromotesOnlyFromToQualify(t *testing.T) {
	assert.Equal(t, model.ProspectOfferSent, Apply(model.ProspectToQualify, model.OfferSent))

	for _, current := range []model.ProspectStatus{
		model.ProspectOfferSent, model.ProspectNegotiating, model.ProspectLost, model.ProspectSigned,
	} {
		assert.Equal(t, current, Apply(current, model.OfferSent), "from %s", current)
	}
}

func TestRejectedHasNoEffect(t *testing.T) {
	for _, current := range allProspectStatuses {
		assert.Equal(t, current, Apply(current, model.OfferRejected), "from %s", current)
	}
}
