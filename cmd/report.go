package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/report"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	reportDataset string
	reportTargets string
	reportOut     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List venues still lacking deal coverage",
	Long: "Emits one backfill row per venue whose deal list is empty, joined " +
		"against the checked target registry for consent state and research " +
		"handles. The output is the worklist for the next crawl or manual pass.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset := orDefault(reportDataset, cfg.Paths.Dataset)
		targetsPath := orDefault(reportTargets, cfg.Paths.Artifact("targets_checked.csv"))
		out := orDefault(reportOut, cfg.Paths.Artifact("missing_deals_report.csv"))

		venues, err := model.LoadVenues(dataset)
		if err != nil {
			return eris.Wrap(err, "report: load dataset")
		}

		raw, err := table.ReadRows(targetsPath)
		if err != nil {
			return eris.Wrap(err, "report: read target registry")
		}
		checked := make([]model.TargetRow, len(raw))
		for i, m := range raw {
			checked[i] = model.TargetFromRow(m)
		}

		rows := report.Missing(venues, checked, cfg.City.Name, cfg.City.Region)

		w, err := table.NewWriter(out, model.MissingHeader)
		if err != nil {
			return eris.Wrap(err, "report: open output")
		}
		for _, r := range rows {
			if err := w.Append(r.Record()); err != nil {
				_ = w.Close()
				return eris.Wrap(err, "report: write row")
			}
		}
		if err := w.Close(); err != nil {
			return eris.Wrap(err, "report: close output")
		}

		fmt.Printf("%d of %d venues still lack deals → %s\n", len(rows), len(venues), out)
		zap.L().Info("coverage report written",
			zap.Int("venues", len(venues)),
			zap.Int("missing", len(rows)),
			zap.String("out", out),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportDataset, "dataset", "", "canonical dataset path (default from config)")
	reportCmd.Flags().StringVar(&reportTargets, "targets", "", "checked targets CSV (default <data_dir>/targets_checked.csv)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output CSV path (default <data_dir>/missing_deals_report.csv)")
}
