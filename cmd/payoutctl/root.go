package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/payout/internal/db"
	"github.com/Simplici0/payout/internal/logging"
	"github.com/Simplici0/payout/internal/migrations"
	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
	"github.com/Simplici0/payout/internal/storage"
	"github.com/Simplici0/payout/internal/validate"
)

type rootOptions struct {
	dbPath   string
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "payoutctl",
		Short: "Marketplace settlement and selling-price calculator",
		Long: `payoutctl computes marketplace settlements for a selling price and solves for
the selling price that yields a target settlement.

Examples:
  payoutctl forward --price 500 --article Tshirts --brand Bellstone
  payoutctl quote --target 600 --marketplace Myntra --db ./payout.db
  payoutctl batch --in rows.csv --out report.csv --marketplace AJIO`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database holding the rate card and buffers (optional)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	cmd.AddCommand(
		newForwardCommand(opts),
		newQuoteCommand(opts),
		newBatchCommand(opts),
		newTemplateCommand(),
		newRateCardCommand(opts),
		newStatusCommand(opts),
	)
	return cmd
}

func (o *rootOptions) logger() *zap.Logger {
	logger, err := logging.New(o.logLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openDB opens and migrates the configured database. It returns nil when no
// database was requested.
func (o *rootOptions) openDB(logger *zap.Logger) (*sqlx.DB, error) {
	if o.dbPath == "" {
		return nil, nil
	}
	database, err := db.Open(o.dbPath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database.DB, logging.NewPrintfAdapter(logger)); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// state is the stored configuration a calculation runs against. Without a
// database it is the built-in defaults and no overrides.
type state struct {
	overrides *ratecard.OverrideTable
	buffers   storage.BufferSettings
}

func (o *rootOptions) loadState(ctx context.Context, logger *zap.Logger) (state, error) {
	st := state{buffers: storage.BufferSettings{Buffers: pricing.DefaultBuffers, MarkupEnabled: true}}

	database, err := o.openDB(logger)
	if err != nil || database == nil {
		return st, err
	}
	defer database.Close()

	table, err := storage.NewRateCardRepository(database).Load(ctx)
	if err != nil {
		return st, err
	}
	st.overrides = &table

	if st.buffers, err = storage.NewBufferRepository(database).Get(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// fieldFlags binds pricing fields to command-line flags. The AJIO percentages
// are plain values here and only reach Fields when the flag was given.
type fieldFlags struct {
	pricing.Fields
	ajioMargin   float64
	ajioDiscount float64
}

func addFieldFlags(cmd *cobra.Command, f *fieldFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.Marketplace, "marketplace", "m", "", "Marketplace: Myntra, AJIO or Amazon (default Myntra)")
	flags.StringVarP(&f.Brand, "brand", "b", "", "Brand (default Bellstone)")
	flags.StringVarP(&f.ArticleType, "article", "a", "", "Article type (default Tshirts)")
	flags.StringVarP(&f.Level, "level", "l", "", "Logistics level 1-5 (default: the article's level)")
	flags.BoolVar(&f.Reverse, "reverse", false, "Charge reverse logistics")
	flags.StringVar(&f.ReverseMode, "mode", "", "Reverse logistics mode: fixed or percentage")
	flags.StringVar(&f.Region, "region", "", "Reverse logistics region: Local, Zone or National")
	flags.Float64Var(&f.Percent, "percent", 0, "Reverse logistics percentage of price")
	flags.Float64Var(&f.ajioMargin, "ajio-margin", pricing.DefaultAJIOMarginPercent, "AJIO margin percent")
	flags.Float64Var(&f.ajioDiscount, "ajio-discount", pricing.DefaultAJIOTradeDiscountPercent, "AJIO trade discount percent")
}

// context validates the flags and builds a calculation context.
func (f *fieldFlags) context(cmd *cobra.Command, overrides *ratecard.OverrideTable) (pricing.Context, error) {
	fields := f.Fields
	if cmd.Flags().Changed("ajio-margin") {
		fields.AJIOMargin = &f.ajioMargin
	}
	if cmd.Flags().Changed("ajio-discount") {
		fields.AJIODiscount = &f.ajioDiscount
	}
	if err := validate.New().Struct(fields); err != nil {
		return pricing.Context{}, err
	}
	return fields.Context(overrides)
}

func checkAmount(flag string, v float64) error {
	if v < 0 || v > pricing.MaxAmount {
		return fmt.Errorf("--%s must be between 0 and %.0f", flag, pricing.MaxAmount)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
