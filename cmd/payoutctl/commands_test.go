package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestForwardCommand(t *testing.T) {
	out, err := run(t, "forward", "--price", "500", "--brand", "Other", "--article", "Tshirts", "--level", "2")
	require.NoError(t, err)

	var b pricing.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.InDelta(t, 405.2828571428571, b.Settlement, 1e-9)

	_, err = run(t, "forward", "--price", "500", "--brand", "Acme")
	assert.Error(t, err)

	_, err = run(t, "forward")
	assert.Error(t, err, "price is required")
}

func TestQuoteCommand(t *testing.T) {
	out, err := run(t, "quote", "--target", "600", "--level", "2")
	require.NoError(t, err)

	var resp struct {
		Target    float64           `json:"target"`
		Breakdown pricing.Breakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 722.7157, resp.Breakdown.SellingPrice, 0.001)

	out, err = run(t, "quote", "--cost", "350", "--brand", "CB-COLEBROOK", "--article", "Trousers")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 479.5, resp.Target)

	_, err = run(t, "quote", "--target", "600", "--marketplace", "Amazon")
	assert.ErrorIs(t, err, pricing.ErrUnsupportedMarketplace)

	_, err = run(t, "quote")
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "rows.csv")
	out := filepath.Join(dir, "report.csv")

	template, err := run(t, "template", "--marketplace", "AJIO")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, []byte(template), 0o600))

	msg, err := run(t, "batch", "--in", in, "--out", out, "--marketplace", "AJIO", "--no-buffers")
	require.NoError(t, err)
	assert.Contains(t, msg, "priced 1 rows (0 skipped)")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "AJ-001", records[1][0])
	assert.Equal(t, "450", records[1][5], "target equals cost without buffers")
}

func TestRateCardImportFeedsQuotes(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "payout.db")
	card := filepath.Join(dir, "card.yaml")
	require.NoError(t, os.WriteFile(card, []byte(`
enabled: true
rules:
  - brand: ALL
    articleType: Tshirts
    lowerLimit: 0
    upperLimit: 100000
    type: COMMISSION
    rate: 1
`), 0o600))

	_, err := run(t, "ratecard", "show")
	assert.Error(t, err, "db is required")

	msg, err := run(t, "--db", dbPath, "ratecard", "import", "--file", card)
	require.NoError(t, err)
	assert.Contains(t, msg, "imported 1 rules")

	out, err := run(t, "--db", dbPath, "ratecard", "show")
	require.NoError(t, err)
	var table ratecard.OverrideTable
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.True(t, table.Enabled)
	require.Len(t, table.Rules, 1)

	out, err = run(t, "--db", dbPath, "forward", "--price", "600", "--article", "Tshirts")
	require.NoError(t, err)
	var b pricing.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, 1.0, b.CommissionRate)
}

func TestForwardCommand_DispatchesByMarketplace(t *testing.T) {
	out, err := run(t, "forward", "--price", "1000", "--marketplace", "AJIO", "--ajio-margin", "30", "--ajio-discount", "50")
	require.NoError(t, err)

	var b pricing.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, pricing.AJIO, b.Marketplace)
	require.NotNil(t, b.Alternate)
	assert.Equal(t, 30.0, b.Alternate.MarginPercent)
	assert.Equal(t, 50.0, b.Alternate.TradeDiscountPercent)

	_, err = run(t, "forward", "--price", "1000", "--marketplace", "Amazon")
	assert.ErrorIs(t, err, pricing.ErrUnsupportedMarketplace)
}

func TestQuoteCommand_AJIOFlagsAndLimits(t *testing.T) {
	out, err := run(t, "quote", "--target", "1000", "-m", "AJIO", "--ajio-margin", "30", "--ajio-discount", "50")
	require.NoError(t, err)

	var resp struct {
		Breakdown pricing.Breakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, pricing.Alternate(1000, 30, 50).SellingPrice, resp.Breakdown.SellingPrice, 1e-9)

	out, err = run(t, "quote", "--target", "1000", "-m", "AJIO")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, pricing.DefaultAJIOMarginPercent, resp.Breakdown.Alternate.MarginPercent)

	_, err = run(t, "quote", "--target", "1000", "-m", "AJIO", "--ajio-margin", "120")
	assert.Error(t, err)

	_, err = run(t, "quote", "--target", "1e17")
	assert.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "payout.db")

	_, err := run(t, "status")
	assert.Error(t, err, "db is required")

	out, err := run(t, "--db", dbPath, "status")
	require.NoError(t, err)

	var status struct {
		SchemaVersion   int64 `json:"schemaVersion"`
		RateCardEnabled bool  `json:"rateCardEnabled"`
		RateCardRules   int   `json:"rateCardRules"`
		Buffers         struct {
			ProfitMarginPercent float64 `json:"profitMarginPercent"`
			MarkupEnabled       bool    `json:"markupEnabled"`
		} `json:"buffers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, int64(1), status.SchemaVersion)
	assert.False(t, status.RateCardEnabled)
	assert.Zero(t, status.RateCardRules)
	assert.Equal(t, pricing.DefaultBuffers.ProfitMarginPercent, status.Buffers.ProfitMarginPercent)
	assert.True(t, status.Buffers.MarkupEnabled)
}
