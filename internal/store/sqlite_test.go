package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurotrade/salesdesk/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_ProspectsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	loaded, err := st.LoadProspects(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	amount := 185000.0
	prospects := []model.Prospect{{
		ID:               "PR-000001",
		Client:           "Congelcam",
		Market:           model.MarketWestAfrica,
		Product:          "Vannamei Shrimp (Ecuador)",
		FirstContactDate: "2025-09-19",
		OfferSent:        model.Yes,
		OfferDate:        "2025-09-22",
		AmountUSD:        &amount,
		Status:           model.ProspectNegotiating,
		ClientResponded:  model.No,
	}}
	require.NoError(t, st.SaveProspects(ctx, prospects))

	loaded, err = st.LoadProspects(ctx)
	require.NoError(t, err)
	assert.Equal(t, prospects, loaded)
}

func TestSQLite_SaveOverwritesWholeCollection(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveOffers(ctx, []model.Offer{{ID: "OF-000001"}, {ID: "OF-000002"}}))
	require.NoError(t, st.SaveOffers(ctx, []model.Offer{{ID: "OF-000003"}}))

	offers, err := st.LoadOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "OF-000003", offers[0].ID)
}

func TestSQLite_RefsSeedDefaults(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	refs, err := st.LoadRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProducts(), refs.Products)
	assert.Empty(t, refs.Clients)

	refs.UpsertClient("Congelcam")
	require.NoError(t, st.SaveRefs(ctx, refs))

	reloaded, err := st.LoadRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Congelcam"}, reloaded.Clients)
}

func TestSQLite_FxCache(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	fx, err := st.LoadFx(ctx)
	require.NoError(t, err)
	assert.Nil(t, fx)

	require.NoError(t, st.SaveFx(ctx, model.FxCache{TS: 1700000000000, USDEUR: 0.93}))

	fx, err = st.LoadFx(ctx)
	require.NoError(t, err)
	require.NotNil(t, fx)
	assert.InDelta(t, 0.93, fx.USDEUR, 1e-9)
}

func TestSQLite_CorruptPayloadLoadsAsEmpty(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.db.ExecContext(ctx,
		`INSERT INTO collections (name, payload) VALUES ('prospects', 'not json{{')`)
	require.NoError(t, err)

	prospects, err := st.LoadProspects(ctx)
	require.NoError(t, err)
	assert.Empty(t, prospects)

	// Refs fall back to the seed, not to a bare zero value.
	_, err = st.db.ExecContext(ctx,
		`INSERT INTO collections (name, payload) VALUES ('refs', '?!')`)
	require.NoError(t, err)

	refs, err := st.LoadRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProducts(), refs.Products)
}

func TestSQLite_Reset(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveProspects(ctx, []model.Prospect{{ID: "PR-000001"}}))
	require.NoError(t, st.SaveOffers(ctx, []model.Offer{{ID: "OF-000001"}}))
	require.NoError(t, st.SaveFx(ctx, model.FxCache{TS: 1, USDEUR: 0.9}))

	require.NoError(t, st.Reset(ctx))

	prospects, err := st.LoadProspects(ctx)
	require.NoError(t, err)
	assert.Empty(t, prospects)

	offers, err := st.LoadOffers(ctx)
	require.NoError(t, err)
	assert.Empty(t, offers)

	fx, err := st.LoadFx(ctx)
	require.NoError(t, err)
	assert.Nil(t, fx)

	refs, err := st.LoadRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProducts(), refs.Products)
}
