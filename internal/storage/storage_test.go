package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/payout/internal/db"
	"github.com/Simplici0/payout/internal/migrations"
	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "storage-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database.DB, nil))
	return database
}

func ptr(v float64) *float64 { return &v }

func TestRateCardRepository_ReplaceLoadToggleClear(t *testing.T) {
	ctx := context.Background()
	repo := NewRateCardRepository(newTestDB(t))

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, empty.Enabled)
	assert.Empty(t, empty.Rules)

	table := ratecard.OverrideTable{
		Enabled: true,
		Rules: []ratecard.OverrideRule{
			{Brand: "Bellstone", ArticleType: ratecard.Wildcard, Lower: 500, Upper: 999, Kind: ratecard.KindCommission, Rate: ptr(7.08)},
			{Brand: ratecard.Wildcard, ArticleType: "Tshirts", Gender: "Men", Lower: 0, Upper: 999, Kind: ratecard.KindFixedFee, Fee: ptr(11)},
		},
	}
	require.NoError(t, repo.Replace(ctx, table))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Enabled)
	require.Len(t, loaded.Rules, 2)
	assert.Equal(t, "Bellstone", loaded.Rules[0].Brand)
	assert.Equal(t, ratecard.Wildcard, loaded.Rules[0].Gender)
	require.NotNil(t, loaded.Rules[0].Rate)
	assert.Equal(t, 7.08, *loaded.Rules[0].Rate)
	assert.Nil(t, loaded.Rules[0].Fee)
	assert.Equal(t, ratecard.KindFixedFee, loaded.Rules[1].Kind)
	assert.Equal(t, "Men", loaded.Rules[1].Gender)

	// Replacement is wholesale.
	require.NoError(t, repo.Replace(ctx, ratecard.OverrideTable{Enabled: true, Rules: table.Rules[1:]}))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Rules, 1)
	assert.Equal(t, "Tshirts", loaded.Rules[0].ArticleType)

	require.NoError(t, repo.SetEnabled(ctx, false))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.Enabled)
	assert.Len(t, loaded.Rules, 1, "toggling keeps rules")

	require.NoError(t, repo.Clear(ctx))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.Enabled)
	assert.Empty(t, loaded.Rules)
}

func TestBufferRepository_DefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewBufferRepository(newTestDB(t))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, BufferSettings{Buffers: pricing.DefaultBuffers, MarkupEnabled: true}, got)

	want := BufferSettings{
		Buffers:       pricing.Buffers{AdsPercent: 3, DealDiscountPercent: 8, ReviewPercent: 1, ProfitMarginPercent: 20, ReturnPercent: 4},
		MarkupEnabled: false,
	}
	require.NoError(t, repo.Update(ctx, want))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestQuoteRepository_SaveListGet(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(newTestDB(t))

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	first, err := repo.Save(ctx, Quote{Title: "Summer tees", Marketplace: "Myntra", Target: 600, SellingPrice: 722.72, Settlement: 600,
		Breakdown: pricing.Breakdown{Marketplace: pricing.Myntra, SellingPrice: 722.72, Settlement: 600, CommissionRate: 12}})
	require.NoError(t, err)
	_, err = repo.Save(ctx, Quote{Title: "Kurtas", Marketplace: "AJIO", Target: 1000})
	require.NoError(t, err)
	_, err = repo.Save(ctx, Quote{Title: "Winter tees", Marketplace: "Myntra", Target: 900})
	require.NoError(t, err)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Winter tees", "Kurtas", "Summer tees"}, []string{all[0].Title, all[1].Title, all[2].Title})

	tees, err := repo.List(ctx, "tees")
	require.NoError(t, err)
	assert.Len(t, tees, 2)

	ajio, err := repo.List(ctx, "ajio")
	require.NoError(t, err)
	require.Len(t, ajio, 1)
	assert.Equal(t, "Kurtas", ajio[0].Title)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, base.Add(time.Hour).Equal(got.CreatedAt))
	assert.Equal(t, 12.0, got.Breakdown.CommissionRate)
	assert.Equal(t, pricing.Myntra, got.Breakdown.Marketplace)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_PasswordHash(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	_, err := database.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, "ops@payout.local", HashPassword("pw"))
	require.NoError(t, err)

	repo := NewUserRepository(database)
	hash, err := repo.PasswordHash(ctx, "ops@payout.local")
	require.NoError(t, err)
	assert.Equal(t, HashPassword("pw"), hash)

	_, err = repo.PasswordHash(ctx, "nobody@payout.local")
	assert.ErrorIs(t, err, ErrNotFound)
}
