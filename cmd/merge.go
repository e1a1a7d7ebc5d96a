package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/merge"
	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	mergeIn      string
	mergeDataset string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold reviewed deals into the canonical dataset",
	Long: "Attaches each reviewed deal row to its venue in the canonical dataset, " +
		"dedupes on the composite key, and stamps last_verified_at. Existing deals " +
		"are never removed. The dataset is rewritten in place atomically.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(mergeIn, cfg.Paths.Artifact("discovered_deals_reviewed.csv"))
		dataset := orDefault(mergeDataset, cfg.Paths.Dataset)

		raw, err := table.ReadRows(in)
		if err != nil {
			return eris.Wrap(err, "merge: read reviewed deals")
		}
		rows := make([]model.DealRow, len(raw))
		for i, m := range raw {
			rows[i] = model.DealFromRow(m)
		}

		venues, err := model.LoadVenues(dataset)
		if err != nil {
			return eris.Wrap(err, "merge: load dataset")
		}

		res := merge.Run(venues, rows)

		if err := model.SaveVenues(dataset, venues); err != nil {
			return eris.Wrap(err, "merge: save dataset")
		}

		fmt.Printf("Added/merged %d deals into %s\n", res.Merged, dataset)
		if len(res.Skipped) > 0 {
			fmt.Printf("Skipped %d rows without provenance\n", len(res.Skipped))
		}
		if len(res.Unmatched) > 0 {
			fmt.Printf("Unmatched venues (%d):\n", len(res.Unmatched))
			for _, u := range res.Unmatched {
				fmt.Printf("  - %s\n", u.VenueName)
			}
		}

		zap.L().Info("merge complete",
			zap.Int("rows", len(rows)),
			zap.Int("merged", res.Merged),
			zap.Int("unmatched", len(res.Unmatched)),
			zap.Int("skipped", len(res.Skipped)),
			zap.String("dataset", dataset),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVar(&mergeIn, "in", "", "reviewed deals CSV (default <data_dir>/discovered_deals_reviewed.csv)")
	mergeCmd.Flags().StringVar(&mergeDataset, "dataset", "", "canonical dataset path (default from config)")
}
