package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/payout/internal/pricing"
)

// Quote is a stored pricing snapshot. Reading it back never recalculates.
type Quote struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"createdAt"`
	Title        string            `json:"title"`
	Marketplace  string            `json:"marketplace"`
	Target       float64           `json:"target"`
	SellingPrice float64           `json:"sellingPrice"`
	Settlement   float64           `json:"settlement"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
}

// QuoteSummary is the list projection of a quote.
type QuoteSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Title        string    `json:"title"`
	Marketplace  string    `json:"marketplace"`
	Target       float64   `json:"target"`
	SellingPrice float64   `json:"sellingPrice"`
}

type quoteRow struct {
	ID            string  `db:"id"`
	CreatedAt     string  `db:"created_at"`
	Title         string  `db:"title"`
	Marketplace   string  `db:"marketplace"`
	Target        float64 `db:"target"`
	SellingPrice  float64 `db:"selling_price"`
	Settlement    float64 `db:"settlement"`
	BreakdownJSON string  `db:"breakdown_json"`
}

type QuoteRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{db: db, now: time.Now}
}

// Save stores q under a fresh identifier and returns the stored quote.
func (r *QuoteRepository) Save(ctx context.Context, q Quote) (Quote, error) {
	q.ID = uuid.NewString()
	q.CreatedAt = r.now().UTC()

	breakdown, err := json.Marshal(q.Breakdown)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote breakdown: %w", err)
	}

	row := quoteRow{
		ID:            q.ID,
		CreatedAt:     formatTimestamp(q.CreatedAt),
		Title:         q.Title,
		Marketplace:   q.Marketplace,
		Target:        q.Target,
		SellingPrice:  q.SellingPrice,
		Settlement:    q.Settlement,
		BreakdownJSON: string(breakdown),
	}
	if _, err := r.db.NamedExecContext(ctx, `
		INSERT INTO quotes (id, created_at, title, marketplace, target, selling_price, settlement, breakdown_json)
		VALUES (:id, :created_at, :title, :marketplace, :target, :selling_price, :settlement, :breakdown_json)
	`, row); err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}

	return q, nil
}

// List returns quotes newest first, filtered by a case-insensitive title or
// marketplace substring when query is not empty.
func (r *QuoteRepository) List(ctx context.Context, query string) ([]QuoteSummary, error) {
	search := "%" + query + "%"
	var rows []quoteRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, created_at, title, marketplace, target, selling_price, settlement, '' AS breakdown_json
		FROM quotes
		WHERE (? = '' OR title LIKE ? OR marketplace LIKE ?)
		ORDER BY created_at DESC, id DESC
	`, query, search, search); err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}

	quotes := make([]QuoteSummary, 0, len(rows))
	for _, row := range rows {
		createdAt, err := parseTimestamp(row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse quote %s created_at: %w", row.ID, err)
		}
		quotes = append(quotes, QuoteSummary{
			ID:           row.ID,
			CreatedAt:    createdAt,
			Title:        row.Title,
			Marketplace:  row.Marketplace,
			Target:       row.Target,
			SellingPrice: row.SellingPrice,
		})
	}
	return quotes, nil
}

// Get returns the stored quote or ErrNotFound.
func (r *QuoteRepository) Get(ctx context.Context, id string) (Quote, error) {
	var row quoteRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, created_at, title, marketplace, target, selling_price, settlement, breakdown_json
		FROM quotes
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}

	createdAt, err := parseTimestamp(row.CreatedAt)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote created_at: %w", err)
	}

	q := Quote{
		ID:           row.ID,
		CreatedAt:    createdAt,
		Title:        row.Title,
		Marketplace:  row.Marketplace,
		Target:       row.Target,
		SellingPrice: row.SellingPrice,
		Settlement:   row.Settlement,
	}
	if err := json.Unmarshal([]byte(row.BreakdownJSON), &q.Breakdown); err != nil {
		return Quote{}, fmt.Errorf("decode quote breakdown: %w", err)
	}
	return q, nil
}
