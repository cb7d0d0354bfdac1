package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/payout/internal/batch"
	"github.com/Simplici0/payout/internal/migrations"
	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
	"github.com/Simplici0/payout/internal/storage"
	"github.com/Simplici0/payout/internal/validate"
)

func newForwardCommand(root *rootOptions) *cobra.Command {
	var (
		fields fieldFlags
		price  float64
	)

	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Compute the settlement for a selling price",
		Long: `Compute the settlement for a selling price.

For AJIO the amount is the settlement itself and the output is the margin and
trade-discount decomposition.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkAmount("price", price); err != nil {
				return err
			}
			logger := root.logger()
			st, err := root.loadState(cmd.Context(), logger)
			if err != nil {
				return err
			}
			ctx, err := fields.context(cmd, st.overrides)
			if err != nil {
				return err
			}
			breakdown, err := pricing.NewCalculator(nil).Evaluate(price, ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), breakdown)
		},
	}

	addFieldFlags(cmd, &fields)
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "Selling price (required)")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newQuoteCommand(root *rootOptions) *cobra.Command {
	var (
		fields fieldFlags
		target float64
		cost   float64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Solve for the selling price that yields a target settlement",
		Long: `Solve for the selling price that yields a target settlement.

Either --target or --cost is required. With --cost the target is the cost plus
the configured buffers (stored buffers when --db is given, defaults otherwise).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target <= 0 && cost <= 0 {
				return fmt.Errorf("--target or --cost must be greater than 0")
			}
			if err := checkAmount("target", target); err != nil {
				return err
			}
			if err := checkAmount("cost", cost); err != nil {
				return err
			}
			logger := root.logger()
			st, err := root.loadState(cmd.Context(), logger)
			if err != nil {
				return err
			}
			ctx, err := fields.context(cmd, st.overrides)
			if err != nil {
				return err
			}
			if target <= 0 {
				target = pricing.TargetFromCost(cost, st.buffers.Buffers, st.buffers.MarkupEnabled)
			}

			breakdown, err := pricing.NewCalculator(nil).Quote(target, ctx)
			if err != nil {
				return err
			}
			if !breakdown.Finite() {
				return errors.New("result is not a finite amount; check --ajio-margin")
			}

			out := struct {
				Target    float64           `json:"target"`
				Cost      float64           `json:"cost,omitempty"`
				Profit    *float64          `json:"profit,omitempty"`
				ROI       *float64          `json:"roi,omitempty"`
				Breakdown pricing.Breakdown `json:"breakdown"`
			}{Target: target, Cost: cost, Breakdown: breakdown}
			if cost > 0 {
				profit, roi := pricing.Profit(breakdown.Settlement, cost)
				out.Profit, out.ROI = &profit, &roi
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	addFieldFlags(cmd, &fields)
	cmd.Flags().Float64VarP(&target, "target", "t", 0, "Target settlement")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Base cost; target becomes cost plus buffers")
	return cmd
}

func newBatchCommand(root *rootOptions) *cobra.Command {
	var (
		in          string
		out         string
		marketplace string
		noBuffers   bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Price every row of a CSV sheet and write the detailed report",
		Example: `  payoutctl batch --in myntra.csv --out report.csv
  payoutctl batch --in ajio.csv --out report.csv --marketplace AJIO --no-buffers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pricing.ParseMarketplace(marketplace)
			if err != nil {
				return err
			}

			logger := root.logger()
			st, err := root.loadState(cmd.Context(), logger)
			if err != nil {
				return err
			}

			src, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer src.Close()

			rows, skipped, err := batch.ReadRows(src)
			if err != nil {
				return err
			}

			enabled := st.buffers.MarkupEnabled && !noBuffers
			runID := ulid.Make().String()
			results, err := batch.Process(cmd.Context(), pricing.NewCalculator(nil), rows, batch.Options{
				Marketplace:    m,
				Buffers:        st.buffers.Buffers,
				BuffersEnabled: enabled,
				Overrides:      st.overrides,
			})
			if err != nil {
				return err
			}

			dst, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := batch.WriteReport(dst, m, results, enabled); err != nil {
				dst.Close()
				return err
			}
			if err := dst.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			logger.Info("batch run complete",
				zap.String("run_id", runID),
				zap.String("marketplace", string(m)),
				zap.Int("rows", len(results)),
				zap.Int("skipped", skipped),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "priced %d rows (%d skipped) -> %s\n", len(results), skipped, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Input CSV sheet (required)")
	cmd.Flags().StringVar(&out, "out", "", "Output report CSV (required)")
	cmd.Flags().StringVarP(&marketplace, "marketplace", "m", string(pricing.Myntra), "Marketplace: Myntra or AJIO")
	cmd.Flags().BoolVar(&noBuffers, "no-buffers", false, "Use the base cost as the target settlement")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newTemplateCommand() *cobra.Command {
	var marketplace string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the batch import template for a marketplace",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pricing.ParseMarketplace(marketplace)
			if err != nil {
				return err
			}
			return batch.WriteTemplate(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().StringVarP(&marketplace, "marketplace", "m", string(pricing.Myntra), "Marketplace: Myntra or AJIO")
	return cmd
}

func newRateCardCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratecard",
		Short: "Manage the stored override rate card",
	}
	cmd.AddCommand(newRateCardImportCommand(root), newRateCardShowCommand(root))
	return cmd
}

func newRateCardImportCommand(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored rate card with a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.dbPath == "" {
				return errors.New("--db is required")
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open rate card: %w", err)
			}
			defer f.Close()

			table, err := ratecard.DecodeTable(f)
			if err != nil {
				return err
			}
			if err := validate.New().Struct(table); err != nil {
				return err
			}

			logger := root.logger()
			database, err := root.openDB(logger)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := storage.NewRateCardRepository(database).Replace(cmd.Context(), table); err != nil {
				return err
			}
			logger.Info("rate card imported", zap.Int("rules", len(table.Rules)), zap.Bool("enabled", table.Enabled))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rules (enabled=%t)\n", len(table.Rules), table.Enabled)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Rate card file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRateCardShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored rate card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.dbPath == "" {
				return errors.New("--db is required")
			}
			st, err := root.loadState(cmd.Context(), root.logger())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st.overrides)
		},
	}
}

func newStatusCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show schema version, rate card and buffer settings of a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.dbPath == "" {
				return errors.New("--db is required")
			}
			logger := root.logger()
			database, err := root.openDB(logger)
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := migrations.Version(database.DB)
			if err != nil {
				return err
			}
			table, err := storage.NewRateCardRepository(database).Load(cmd.Context())
			if err != nil {
				return err
			}
			buffers, err := storage.NewBufferRepository(database).Get(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), struct {
				SchemaVersion   int64                  `json:"schemaVersion"`
				RateCardEnabled bool                   `json:"rateCardEnabled"`
				RateCardRules   int                    `json:"rateCardRules"`
				Buffers         storage.BufferSettings `json:"buffers"`
			}{version, table.Enabled, len(table.Rules), buffers})
		},
	}
}
