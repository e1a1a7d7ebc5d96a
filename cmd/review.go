package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/review"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	reviewIn             string
	reviewOut            string
	reviewCap            int
	reviewRequireConsent bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Filter, dedupe, and cap candidate deal rows",
	Long: "Applies the quality gates to a candidate deal table: provenance and " +
		"boilerplate checks, field enrichment from the snippet, low-confidence " +
		"pruning, composite-key dedup, and the per-venue cap. Re-running over its " +
		"own output changes nothing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(reviewIn, cfg.Paths.Artifact("discovered_deals.csv"))
		out := orDefault(reviewOut, cfg.Paths.Artifact("discovered_deals_reviewed.csv"))

		maxPerVenue := reviewCap
		if maxPerVenue <= 0 {
			maxPerVenue = cfg.Review.MaxPerVenue
		}

		raw, err := table.ReadRows(in)
		if err != nil {
			return eris.Wrap(err, "review: read input")
		}
		rows := make([]model.DealRow, len(raw))
		for i, m := range raw {
			rows[i] = model.DealFromRow(m)
		}

		res := review.Run(rows, review.Options{
			MaxPerVenue:    maxPerVenue,
			RequireConsent: reviewRequireConsent,
		})

		w, err := table.NewWriter(out, model.DealHeader)
		if err != nil {
			return eris.Wrap(err, "review: open output")
		}
		for _, r := range res.Kept {
			if err := w.Append(r.Record()); err != nil {
				_ = w.Close()
				return eris.Wrap(err, "review: write row")
			}
		}
		if err := w.Close(); err != nil {
			return eris.Wrap(err, "review: close output")
		}

		fmt.Printf("Kept %d of %d rows (%d dropped) → %s\n", len(res.Kept), len(rows), res.Dropped, out)
		zap.L().Info("review complete",
			zap.Int("in", len(rows)),
			zap.Int("kept", len(res.Kept)),
			zap.Int("dropped", res.Dropped),
			zap.String("out", out),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVar(&reviewIn, "in", "", "candidate deals CSV (default <data_dir>/discovered_deals.csv)")
	reviewCmd.Flags().StringVar(&reviewOut, "out", "", "output CSV path (default <data_dir>/discovered_deals_reviewed.csv)")
	reviewCmd.Flags().IntVar(&reviewCap, "cap", 0, "max rows kept per venue (default from config)")
	reviewCmd.Flags().BoolVar(&reviewRequireConsent, "require-consent", false, "also drop rows whose scrape_allowed column is not true")
}
