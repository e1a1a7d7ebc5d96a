package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/table"
	"github.com/menuscout/scout-cli/internal/targets"
)

var (
	targetsDataset string
	targetsOut     string
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Build the crawl target registry from the canonical dataset",
	Long: "Reads the canonical venue dataset and emits one crawl target row per " +
		"venue, sorted by name, with synthesized search queries, maps links, and " +
		"robots.txt URLs. Consent columns start empty; run 'menuscout robots' next.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset := orDefault(targetsDataset, cfg.Paths.Dataset)
		out := orDefault(targetsOut, cfg.Paths.Artifact("targets.csv"))

		venues, err := model.LoadVenues(dataset)
		if err != nil {
			return eris.Wrap(err, "targets: load dataset")
		}

		rows := targets.BuildRows(venues, cfg.City.Name, cfg.City.Region)

		w, err := table.NewWriter(out, model.TargetHeader)
		if err != nil {
			return eris.Wrap(err, "targets: open output")
		}
		for _, r := range rows {
			if err := w.Append(r.Record()); err != nil {
				_ = w.Close()
				return eris.Wrap(err, "targets: write row")
			}
		}
		if err := w.Close(); err != nil {
			return eris.Wrap(err, "targets: close output")
		}

		fmt.Printf("Wrote %d targets to %s\n", len(rows), out)
		zap.L().Info("targets built",
			zap.String("dataset", dataset),
			zap.String("out", out),
			zap.Int("venues", len(venues)),
			zap.Int("targets", len(rows)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().StringVar(&targetsDataset, "dataset", "", "canonical dataset path (default from config)")
	targetsCmd.Flags().StringVar(&targetsOut, "out", "", "output CSV path (default <data_dir>/targets.csv)")
}
