package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/menuscout/scout-cli/internal/extract"
	"github.com/menuscout/scout-cli/internal/fetch"
	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	extractLinks   string
	extractTargets string
	extractOut     string
)

type extractResult struct {
	venue string
	url   string
	rows  []model.DealRow
	err   error
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract candidate deals from discovered pages",
	Long: "Fetches every discovered link and extracts candidate deal rows from " +
		"keyword text blocks and embedded structured data. Discovered links only " +
		"exist for consented sites, so every output row carries scrape_allowed=true.",
	RunE: func(cmd *cobra.Command, args []string) error {
		linksPath := orDefault(extractLinks, cfg.Paths.Artifact("discovered_links.csv"))
		targetsPath := orDefault(extractTargets, cfg.Paths.Artifact("targets_checked.csv"))
		out := orDefault(extractOut, cfg.Paths.Artifact("discovered_deals.csv"))
		logPath := cfg.Paths.Artifact("extraction_log.txt")

		rawLinks, err := table.ReadRows(linksPath)
		if err != nil {
			return eris.Wrap(err, "extract: read links")
		}
		links := make([]model.LinkRow, len(rawLinks))
		for i, m := range rawLinks {
			links[i] = model.LinkFromRow(m)
		}

		streets := streetHints(targetsPath)

		client := fetch.NewClient(fetch.Options{
			UserAgent:  cfg.Crawl.UserAgent,
			Timeout:    cfg.Crawl.Timeout(),
			PerHostRPS: cfg.Crawl.PerHostRPS,
		})
		extractor := extract.New(client, cfg.Crawl.MaxBlocksPerPage)

		resCh := make(chan extractResult)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Crawl.Concurrency)

		go func() {
			for _, l := range links {
				l := l
				g.Go(func() error {
					rows, err := extractor.Extract(ctx, l.VenueName,
						streets[strings.ToLower(l.VenueName)], l.URL, model.ConsentAllowed)
					resCh <- extractResult{venue: l.VenueName, url: l.URL, rows: rows, err: err}
					return nil
				})
			}
			_ = g.Wait()
			close(resCh)
		}()

		w, err := table.NewWriter(out, model.DealHeader)
		if err != nil {
			return eris.Wrap(err, "extract: open output")
		}
		log, err := table.NewLog(logPath)
		if err != nil {
			_ = w.Close()
			return eris.Wrap(err, "extract: open log")
		}

		pagesWithRows, failed := 0, 0
		for res := range resCh {
			if res.err != nil {
				failed++
				log.Line(fmt.Sprintf("SKIP → %s (%s)", res.venue, res.url))
				zap.L().Debug("extract: page skipped", zap.String("url", res.url), zap.Error(res.err))
				continue
			}
			if len(res.rows) == 0 {
				log.Line(fmt.Sprintf("NONE → %s (%s)", res.venue, res.url))
				continue
			}
			pagesWithRows++
			for _, r := range res.rows {
				if err := w.Append(r.Record()); err != nil {
					_ = w.Close()
					_ = log.Close()
					return eris.Wrap(err, "extract: write row")
				}
			}
			log.Line(fmt.Sprintf("FOUND %d → %s (%s)", len(res.rows), res.venue, res.url))
		}
		if err := w.Close(); err != nil {
			_ = log.Close()
			return eris.Wrap(err, "extract: close output")
		}
		if err := log.Close(); err != nil {
			return eris.Wrap(err, "extract: close log")
		}

		fmt.Printf("Extracted %d rows from %d of %d pages (%d fetch failures) → %s\n",
			w.Count(), pagesWithRows, len(links), failed, out)
		zap.L().Info("extraction complete",
			zap.Int("pages", len(links)),
			zap.Int("with_rows", pagesWithRows),
			zap.Int("failed", failed),
			zap.Int("rows", w.Count()),
			zap.String("out", out),
		)
		return nil
	},
}

// streetHints joins the checked target registry for street addresses, used
// to disambiguate venue matching downstream. A missing registry just means
// empty hints.
func streetHints(path string) map[string]string {
	hints := make(map[string]string)
	raw, err := table.ReadRows(path)
	if err != nil {
		zap.L().Warn("extract: no target registry for street hints", zap.String("path", path), zap.Error(err))
		return hints
	}
	for _, m := range raw {
		t := model.TargetFromRow(m)
		hints[strings.ToLower(t.VenueName)] = t.Street
	}
	return hints
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractLinks, "links", "", "discovered links CSV (default <data_dir>/discovered_links.csv)")
	extractCmd.Flags().StringVar(&extractTargets, "targets", "", "checked targets CSV for street hints (default <data_dir>/targets_checked.csv)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output CSV path (default <data_dir>/discovered_deals.csv)")
}
