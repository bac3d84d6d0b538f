package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/store"
)

const testToday = "2025-10-15"

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "salesdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, WithClock(func() string { return testToday }))
}

func TestAddProspectDefaults(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	p, err := tr.AddProspect(ctx, ProspectInput{
		Client:  "Atlas Foods",
		Product: "Vannamei Shrimp (Ecuador)",
	})
	require.NoError(t, err)

	assert.Equal(t, "PR-000001", p.ID)
	assert.Equal(t, testToday, p.FirstContactDate)
	assert.Equal(t, model.ProspectToQualify, p.Status)
	assert.Equal(t, model.MarketMorocco, p.Market)
	assert.Equal(t, model.No, p.OfferSent)

	// New prospects go to the front of the list.
	_, err = tr.AddProspect(ctx, ProspectInput{Client: "Basma Trading", Product: "Hake (Namibia)"})
	require.NoError(t, err)

	prospects, err := tr.Prospects(ctx)
	require.NoError(t, err)
	require.Len(t, prospects, 2)
	assert.Equal(t, "PR-000002", prospects[0].ID)
	assert.Equal(t, "Basma Trading", prospects[0].Client)
}

func TestAddProspectValidation(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ProspectInput
		want error
	}{
		{
			name: "missing client",
			in:   ProspectInput{Product: "Hake (Namibia)"},
			want: ErrMissingRequiredField,
		},
		{
			name: "missing product",
			in:   ProspectInput{Client: "Atlas Foods"},
			want: ErrMissingRequiredField,
		},
		{
			name: "offer sent without date",
			in:   ProspectInput{Client: "Atlas Foods", Product: "Hake (Namibia)", OfferSent: model.Yes},
			want: ErrConditionalFieldMissing,
		},
		{
			name: "responded without date",
			in:   ProspectInput{Client: "Atlas Foods", Product: "Hake (Namibia)", ClientResponded: model.Yes},
			want: ErrConditionalFieldMissing,
		},
		{
			name: "signed without signature date",
			in:   ProspectInput{Client: "Atlas Foods", Product: "Hake (Namibia)", Status: model.ProspectSigned},
			want: ErrConditionalFieldMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.AddProspect(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.want))
		})
	}
}

func TestAddProspectUpdatesRefs(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.AddProspect(ctx, ProspectInput{Client: "Atlas Foods", Product: "Sardine (Morocco)"})
	require.NoError(t, err)

	refs, err := tr.Refs(ctx)
	require.NoError(t, err)
	assert.Contains(t, refs.Clients, "Atlas Foods")
	// Known product is not duplicated into the list.
	count := 0
	for _, p := range refs.Products {
		if p == "Sardine (Morocco)" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAddOfferValidation(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	_, _, err := tr.AddOffer(ctx, OfferInput{Client: "Atlas Foods", Product: "Hake (Namibia)", PricePerKgUSD: 0, VolumeKg: 500})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidNumericRange))

	_, _, err = tr.AddOffer(ctx, OfferInput{Client: "Atlas Foods", Product: "Hake (Namibia)", PricePerKgUSD: 4.2, VolumeKg: -1})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidNumericRange))
}

func TestAddOfferAutoLinkAndCreationCascade(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	// Older prospect for the same client: must not be picked.
	_, err := tr.AddProspect(ctx, ProspectInput{
		Client:           "Acme",
		Product:          "Hake (Namibia)",
		FirstContactDate: "2025-09-01",
	})
	require.NoError(t, err)
	recent, err := tr.AddProspect(ctx, ProspectInput{
		Client:           "ACME", // match is case-insensitive
		Product:          "Hake (Namibia)",
		FirstContactDate: "2025-10-01",
	})
	require.NoError(t, err)

	offer, _, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Acme",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 6.5,
		VolumeKg:      10000,
	})
	require.NoError(t, err)
	assert.Equal(t, "OF-000001", offer.ID)
	assert.Equal(t, recent.ID, offer.ProspectID)
	assert.Equal(t, model.OfferSent, offer.Status)
	assert.Equal(t, model.IncotermCFR, offer.Incoterm)
	assert.Equal(t, testToday, offer.OfferDate)

	prospects, err := tr.Prospects(ctx)
	require.NoError(t, err)
	for _, p := range prospects {
		if p.ID == recent.ID {
			assert.Equal(t, model.Yes, p.OfferSent)
			assert.Equal(t, offer.OfferDate, p.OfferDate)
			assert.Equal(t, model.ProspectOfferSent, p.Status)
		} else {
			assert.Equal(t, model.No, p.OfferSent)
			assert.Equal(t, model.ProspectToQualify, p.Status)
		}
	}
}

func TestAddOfferExplicitLinkKeepsAdvancedStatus(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	p, err := tr.AddProspect(ctx, ProspectInput{
		Client:  "Acme",
		Product: "Hake (Namibia)",
		Status:  model.ProspectNegotiating,
	})
	require.NoError(t, err)

	offer, _, err := tr.AddOffer(ctx, OfferInput{
		ProspectID:    p.ID,
		Client:        "Acme",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 6.5,
		VolumeKg:      10000,
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, offer.ProspectID)

	prospects, err := tr.Prospects(ctx)
	require.NoError(t, err)
	require.Len(t, prospects, 1)
	// Offer flag is stamped, but status is not regressed or promoted.
	assert.Equal(t, model.Yes, prospects[0].OfferSent)
	assert.Equal(t, model.ProspectNegotiating, prospects[0].Status)
}

func TestAddOfferNoMatchingProspect(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	offer, _, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Unseen Client",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 6.5,
		VolumeKg:      500,
	})
	require.NoError(t, err)
	assert.Empty(t, offer.ProspectID)
}

func TestAddOfferPriceDeviation(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	// Seed a comparable inside the 30-day window to create a median of 5.0.
	_, _, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Atlas Foods",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 5.0,
		VolumeKg:      1000,
		OfferDate:     "2025-10-10",
	})
	require.NoError(t, err)

	// 5.5 is 10% over the median: refused without explicit confirmation.
	_, suggestion, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Atlas Foods",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 5.5,
		VolumeKg:      1000,
	})
	require.Error(t, err)
	var devErr *PriceDeviationError
	require.True(t, eris.As(err, &devErr))
	assert.InDelta(t, 0.10, devErr.Delta, 1e-9)
	require.NotNil(t, suggestion)
	assert.InDelta(t, 5.0, suggestion.Median, 1e-9)

	offers, err := tr.Offers(ctx)
	require.NoError(t, err)
	assert.Len(t, offers, 1)

	// Same offer goes through once the deviation is accepted.
	o, _, err := tr.AddOffer(ctx, OfferInput{
		Client:          "Atlas Foods",
		Product:         "Hake (Namibia)",
		PricePerKgUSD:   5.5,
		VolumeKg:        1000,
		AcceptDeviation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "OF-000002", o.ID)
}

func TestAddOfferWithinThresholdPasses(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	_, _, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Atlas Foods",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 5.0,
		VolumeKg:      1000,
		OfferDate:     "2025-10-10",
	})
	require.NoError(t, err)

	// 2% over the median: no confirmation needed.
	_, _, err = tr.AddOffer(ctx, OfferInput{
		Client:        "Atlas Foods",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 5.1,
		VolumeKg:      1000,
	})
	require.NoError(t, err)
}

func TestUpdateOfferStatusCascades(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	p, err := tr.AddProspect(ctx, ProspectInput{Client: "Acme", Product: "Hake (Namibia)"})
	require.NoError(t, err)
	o, _, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Acme",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 6.5,
		VolumeKg:      10000,
	})
	require.NoError(t, err)

	updated, err := tr.UpdateOfferStatus(ctx, o.ID, model.OfferAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.OfferAccepted, updated.Status)

	prospects, err := tr.Prospects(ctx)
	require.NoError(t, err)
	require.Len(t, prospects, 1)
	assert.Equal(t, p.ID, prospects[0].ID)
	assert.Equal(t, model.ProspectSigned, prospects[0].Status)
}

func TestUpdateOfferStatusRejectedLeavesProspect(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.AddProspect(ctx, ProspectInput{Client: "Acme", Product: "Hake (Namibia)"})
	require.NoError(t, err)
	o, _, err := tr.AddOffer(ctx, OfferInput{
		Client:        "Acme",
		Product:       "Hake (Namibia)",
		PricePerKgUSD: 6.5,
		VolumeKg:      10000,
	})
	require.NoError(t, err)

	_, err = tr.UpdateOfferStatus(ctx, o.ID, model.OfferRejected)
	require.NoError(t, err)

	prospects, err := tr.Prospects(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ProspectOfferSent, prospects[0].Status)
}

func TestUpdateOfferStatusNotFound(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.UpdateOfferStatus(context.Background(), "OF-999999", model.OfferAccepted)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestUpdateProspectPatch(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	p, err := tr.AddProspect(ctx, ProspectInput{Client: "Acme", Product: "Hake (Namibia)"})
	require.NoError(t, err)

	status := model.ProspectLost
	reason := model.LossPrice
	note := "went with a Vietnamese supplier"
	updated, err := tr.UpdateProspect(ctx, p.ID, ProspectPatch{
		Status:     &status,
		LossReason: &reason,
		Note:       &note,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProspectLost, updated.Status)
	assert.Equal(t, model.LossPrice, updated.LossReason)
	assert.Equal(t, note, updated.Note)
	// Untouched fields survive the patch.
	assert.Equal(t, "Acme", updated.Client)
	assert.Equal(t, testToday, updated.FirstContactDate)

	_, err = tr.UpdateProspect(ctx, "PR-999999", ProspectPatch{Status: &status})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestResetClearsCollections(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.AddProspect(ctx, ProspectInput{Client: "Acme", Product: "Hake (Namibia)"})
	require.NoError(t, err)
	require.NoError(t, tr.Reset(ctx))

	prospects, err := tr.Prospects(ctx)
	require.NoError(t, err)
	assert.Empty(t, prospects)

	refs, err := tr.Refs(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, refs.Products)
	assert.Empty(t, refs.Clients)
}
