package seed

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/storage"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	MarkupEnabled bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sqlx.DB, cfg Config) (Stats, error) {
	tx, err := db.Beginx()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureBufferConfig(tx, cfg.MarkupEnabled, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureRateCard(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sqlx.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, storage.HashPassword(password)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureBufferConfig(tx *sqlx.Tx, markupEnabled bool, stats *Stats) error {
	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM buffer_config WHERE id = 1)`); err != nil {
		return fmt.Errorf("check buffer config existence: %w", err)
	}
	if exists {
		return nil
	}

	settings := storage.BufferSettings{Buffers: pricing.DefaultBuffers, MarkupEnabled: markupEnabled}
	if _, err := tx.NamedExec(`
		INSERT INTO buffer_config (
			id,
			ads_percent,
			deal_discount_percent,
			review_percent,
			profit_margin_percent,
			return_percent,
			markup_enabled
		)
		VALUES (1, :ads_percent, :deal_discount_percent, :review_percent, :profit_margin_percent, :return_percent, :markup_enabled)
	`, settings); err != nil {
		return fmt.Errorf("insert buffer config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureRateCard(tx *sqlx.Tx, stats *Stats) error {
	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM rate_card WHERE id = 1)`); err != nil {
		return fmt.Errorf("check rate card existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO rate_card (id, enabled) VALUES (1, 0)`); err != nil {
		return fmt.Errorf("insert rate card singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
