package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/payout/internal/ratecard"
)

type ruleRow struct {
	Position    int             `db:"position"`
	Brand       string          `db:"brand"`
	ArticleType string          `db:"article_type"`
	Gender      string          `db:"gender"`
	Lower       float64         `db:"lower_limit"`
	Upper       float64         `db:"upper_limit"`
	Kind        string          `db:"kind"`
	Rate        sql.NullFloat64 `db:"rate"`
	Fee         sql.NullFloat64 `db:"fee"`
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// RateCardRepository stores the manual override rate card.
type RateCardRepository struct {
	db *sqlx.DB
}

func NewRateCardRepository(db *sqlx.DB) *RateCardRepository {
	return &RateCardRepository{db: db}
}

// Load returns the stored rate card in import order. An empty store yields a
// disabled table with no rules.
func (r *RateCardRepository) Load(ctx context.Context) (ratecard.OverrideTable, error) {
	var enabled bool
	err := r.db.GetContext(ctx, &enabled, `SELECT enabled FROM rate_card WHERE id = 1`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ratecard.OverrideTable{}, fmt.Errorf("query rate card: %w", err)
	}

	var rows []ruleRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT position, brand, article_type, gender, lower_limit, upper_limit, kind, rate, fee
		FROM rate_card_rules
		ORDER BY position, id
	`); err != nil {
		return ratecard.OverrideTable{}, fmt.Errorf("query rate card rules: %w", err)
	}

	table := ratecard.OverrideTable{Enabled: enabled, Rules: make([]ratecard.OverrideRule, 0, len(rows))}
	for _, row := range rows {
		table.Rules = append(table.Rules, ratecard.OverrideRule{
			Brand:       row.Brand,
			ArticleType: row.ArticleType,
			Gender:      row.Gender,
			Lower:       row.Lower,
			Upper:       row.Upper,
			Kind:        ratecard.RuleKind(row.Kind),
			Rate:        fromNullable(row.Rate),
			Fee:         fromNullable(row.Fee),
		})
	}
	return table, nil
}

// Replace swaps the stored rule set for table in a single transaction.
func (r *RateCardRepository) Replace(ctx context.Context, table ratecard.OverrideTable) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rate card transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rate_card_rules`); err != nil {
		return fmt.Errorf("delete rate card rules: %w", err)
	}

	for i, rule := range table.Rules {
		gender := rule.Gender
		if gender == "" {
			gender = ratecard.Wildcard
		}
		row := ruleRow{
			Position:    i,
			Brand:       rule.Brand,
			ArticleType: rule.ArticleType,
			Gender:      gender,
			Lower:       rule.Lower,
			Upper:       rule.Upper,
			Kind:        string(rule.Kind),
			Rate:        nullable(rule.Rate),
			Fee:         nullable(rule.Fee),
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO rate_card_rules (position, brand, article_type, gender, lower_limit, upper_limit, kind, rate, fee)
			VALUES (:position, :brand, :article_type, :gender, :lower_limit, :upper_limit, :kind, :rate, :fee)
		`, row); err != nil {
			return fmt.Errorf("insert rate card rule %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_card (id, enabled, imported_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET enabled = excluded.enabled, imported_at = excluded.imported_at
	`, table.Enabled, formatTimestamp(time.Now())); err != nil {
		return fmt.Errorf("upsert rate card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rate card transaction: %w", err)
	}
	return nil
}

// SetEnabled toggles the rate card without touching its rules.
func (r *RateCardRepository) SetEnabled(ctx context.Context, enabled bool) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO rate_card (id, enabled) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET enabled = excluded.enabled
	`, enabled); err != nil {
		return fmt.Errorf("update rate card enabled: %w", err)
	}
	return nil
}

// Clear removes every rule and disables the rate card.
func (r *RateCardRepository) Clear(ctx context.Context) error {
	return r.Replace(ctx, ratecard.OverrideTable{})
}
