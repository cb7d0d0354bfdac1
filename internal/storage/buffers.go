package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/payout/internal/pricing"
)

// BufferSettings is the persisted buffer configuration.
type BufferSettings struct {
	pricing.Buffers
	MarkupEnabled bool `db:"markup_enabled" json:"markupEnabled"`
}

type BufferRepository struct {
	db *sqlx.DB
}

func NewBufferRepository(db *sqlx.DB) *BufferRepository {
	return &BufferRepository{db: db}
}

// Get returns the stored buffers, or the defaults with markup enabled when
// nothing has been saved yet.
func (r *BufferRepository) Get(ctx context.Context) (BufferSettings, error) {
	var settings BufferSettings
	err := r.db.GetContext(ctx, &settings, `
		SELECT ads_percent, deal_discount_percent, review_percent, profit_margin_percent, return_percent, markup_enabled
		FROM buffer_config
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return BufferSettings{Buffers: pricing.DefaultBuffers, MarkupEnabled: true}, nil
	}
	if err != nil {
		return BufferSettings{}, fmt.Errorf("query buffer config: %w", err)
	}
	return settings, nil
}

func (r *BufferRepository) Update(ctx context.Context, settings BufferSettings) error {
	if _, err := r.db.NamedExecContext(ctx, `
		INSERT INTO buffer_config (id, ads_percent, deal_discount_percent, review_percent, profit_margin_percent, return_percent, markup_enabled, updated_at)
		VALUES (1, :ads_percent, :deal_discount_percent, :review_percent, :profit_margin_percent, :return_percent, :markup_enabled, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			ads_percent = excluded.ads_percent,
			deal_discount_percent = excluded.deal_discount_percent,
			review_percent = excluded.review_percent,
			profit_margin_percent = excluded.profit_margin_percent,
			return_percent = excluded.return_percent,
			markup_enabled = excluded.markup_enabled,
			updated_at = excluded.updated_at
	`, settings); err != nil {
		return fmt.Errorf("update buffer config: %w", err)
	}
	return nil
}
