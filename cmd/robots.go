package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/robots"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	robotsIn  string
	robotsOut string
)

var robotsCmd = &cobra.Command{
	Use:   "robots",
	Short: "Resolve crawl consent from each target's robots.txt",
	Long: "Fetches robots.txt for every target whose consent is still unknown and " +
		"records the decision in the scrape_allowed column. Rows already decided " +
		"are passed through unchanged, so the stage is safe to re-run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(robotsIn, cfg.Paths.Artifact("targets.csv"))
		out := orDefault(robotsOut, cfg.Paths.Artifact("targets_checked.csv"))

		raw, err := table.ReadRows(in)
		if err != nil {
			return eris.Wrap(err, "robots: read targets")
		}
		rows := make([]model.TargetRow, len(raw))
		for i, m := range raw {
			rows[i] = model.TargetFromRow(m)
		}

		resolver := robots.NewResolver(cfg.Robots.Timeout(), cfg.Crawl.UserAgent)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Crawl.Concurrency)

		checked := 0
		for i := range rows {
			if rows[i].RobotsURL == "" || rows[i].ScrapeAllowed != model.ConsentUnknown {
				continue
			}
			checked++
			i := i
			g.Go(func() error {
				consent, err := resolver.Check(ctx, rows[i].RobotsURL)
				if err != nil {
					zap.L().Warn("robots check failed",
						zap.String("venue", rows[i].VenueName),
						zap.String("robots_url", rows[i].RobotsURL),
						zap.Error(err),
					)
				}
				rows[i].ScrapeAllowed = consent
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "robots: resolve consent")
		}

		w, err := table.NewWriter(out, model.TargetHeader)
		if err != nil {
			return eris.Wrap(err, "robots: open output")
		}
		allowed, denied := 0, 0
		for _, r := range rows {
			switch r.ScrapeAllowed {
			case model.ConsentAllowed:
				allowed++
			case model.ConsentDenied:
				denied++
			}
			if err := w.Append(r.Record()); err != nil {
				_ = w.Close()
				return eris.Wrap(err, "robots: write row")
			}
		}
		if err := w.Close(); err != nil {
			return eris.Wrap(err, "robots: close output")
		}

		fmt.Printf("Checked %d robots files: %d allowed, %d denied, %d unknown → %s\n",
			checked, allowed, denied, len(rows)-allowed-denied, out)
		zap.L().Info("robots consent resolved",
			zap.Int("checked", checked),
			zap.Int("allowed", allowed),
			zap.Int("denied", denied),
			zap.String("out", out),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(robotsCmd)
	robotsCmd.Flags().StringVar(&robotsIn, "in", "", "input targets CSV (default <data_dir>/targets.csv)")
	robotsCmd.Flags().StringVar(&robotsOut, "out", "", "output CSV path (default <data_dir>/targets_checked.csv)")
}
