package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/scoring"
)

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "$5.50", usd(5.5))
	assert.Equal(t, "$12,500.00", usd(12500))
	assert.Equal(t, "", usdPtr(nil))
	v := 3.0
	assert.Equal(t, "$3.00", usdPtr(&v))
	assert.Equal(t, "10,000 kg", kg(10000))
	assert.Equal(t, "12.5%", pct(0.125))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 30))
	long := strings.Repeat("x", 40)
	got := truncate(long, 30)
	assert.Len(t, got, 30)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestParseFloatArg(t *testing.T) {
	v, err := parseFloatArg("250.5")
	require.NoError(t, err)
	assert.Equal(t, 250.5, v)

	// Positional arguments have no "unset" form: empty is an error, not nil.
	_, err = parseFloatArg("")
	require.Error(t, err)

	_, err = parseFloatArg("abc")
	require.Error(t, err)
}

func TestLossReasonFlagHelpMatchesEnum(t *testing.T) {
	for _, cmd := range []string{"add", "update"} {
		sub, _, err := prospectCmd.Find([]string{cmd})
		require.NoError(t, err)
		flag := sub.Flags().Lookup("loss-reason")
		require.NotNil(t, flag)
		for _, reason := range []string{"Price", "Availability", "Lead time", "Quality", "Terms", "Other"} {
			_, perr := model.ParseLossReason(reason)
			require.NoError(t, perr)
			assert.Contains(t, flag.Usage, reason, "%s --loss-reason help", cmd)
		}
	}
}

func TestParseOptionalFloat(t *testing.T) {
	v, err := parseOptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseOptionalFloat("4.25")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 4.25, *v)

	_, err = parseOptionalFloat("abc")
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSV(&buf, []string{"a", "b"}, [][]string{{"1", "x,y"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}

func TestProspectListRows(t *testing.T) {
	amount := 1500.0
	engine := scoring.NewEngine(scoring.DefaultWeights())
	scored := scoreProspects(engine, []model.Prospect{
		{
			ID: "PR-000001", Client: "Atlas Foods", Market: model.MarketGCC,
			Product: "Hake (Namibia)", FirstContactDate: "2025-10-01",
			OfferSent: model.No, AmountUSD: &amount,
			Status: model.ProspectToQualify,
		},
	}, nil, "2025-10-15")

	rows := prospectListRows(scored)
	require.Len(t, rows, 1)
	assert.Equal(t, "PR-000001", rows[0][0])
	assert.Equal(t, "1500.00", rows[0][6])
	assert.NotEmpty(t, rows[0][9])  // score
	assert.NotEmpty(t, rows[0][10]) // grade
}

func TestScoreProspectsSortsDescending(t *testing.T) {
	engine := scoring.NewEngine(scoring.DefaultWeights())
	today := "2025-10-15"
	stale := model.Prospect{
		ID: "PR-000001", Client: "Old", Status: model.ProspectToQualify,
		FirstContactDate: "2025-01-01", OfferSent: model.No, ClientResponded: model.No,
	}
	fresh := model.Prospect{
		ID: "PR-000002", Client: "New", Status: model.ProspectNegotiating,
		FirstContactDate: today, OfferSent: model.Yes, OfferDate: today,
		ClientResponded: model.Yes, ResponseDate: today,
	}

	scored := scoreProspects(engine, []model.Prospect{stale, fresh}, nil, today)
	require.Len(t, scored, 2)
	assert.Equal(t, "PR-000002", scored[0].prospect.ID)
	assert.GreaterOrEqual(t, scored[0].result.Score, scored[1].result.Score)
}

func TestOfferListRows(t *testing.T) {
	rows := offerListRows([]model.Offer{
		{
			ID: "OF-000001", Client: "Atlas Foods", Market: model.MarketMorocco,
			Product: "Sardine (Morocco)", Incoterm: model.IncotermCFR,
			PricePerKgUSD: 1.85, VolumeKg: 24000, OfferDate: "2025-10-05",
			Status: model.OfferSent,
		},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "1.85", rows[0][7])
	assert.Equal(t, "24000", rows[0][8])
}
