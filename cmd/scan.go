package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/menuscout/scout-cli/internal/discover"
	"github.com/menuscout/scout-cli/internal/extract"
	"github.com/menuscout/scout-cli/internal/fetch"
	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/review"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	scanIn  string
	scanOut string
)

type scanResult struct {
	venue string
	rows  []model.DealRow
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Direct-scan consented venue sites for deal evidence",
	Long: "For every target marked scrape_allowed=true, fetches the homepage plus a " +
		"short list of conventional promo paths and extracts candidate deal rows, " +
		"capped per venue. This is the quick pass; 'discover' plus 'extract' is the " +
		"thorough one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(scanIn, cfg.Paths.Artifact("targets_checked.csv"))
		out := orDefault(scanOut, cfg.Paths.Artifact("scraped_deals.csv"))
		logPath := cfg.Paths.Artifact("scrape_log.txt")

		raw, err := table.ReadRows(in)
		if err != nil {
			return eris.Wrap(err, "scan: read targets")
		}

		var allowed []model.TargetRow
		for _, m := range raw {
			t := model.TargetFromRow(m)
			if t.ScrapeAllowed.Allowed() && t.Website != "" {
				allowed = append(allowed, t)
			}
		}

		client := fetch.NewClient(fetch.Options{
			UserAgent:  cfg.Crawl.UserAgent,
			Timeout:    cfg.Crawl.Timeout(),
			PerHostRPS: cfg.Crawl.PerHostRPS,
		})
		extractor := extract.New(client, cfg.Crawl.MaxBlocksPerPage)

		resCh := make(chan scanResult)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Crawl.Concurrency)

		go func() {
			for _, t := range allowed {
				t := t
				g.Go(func() error {
					resCh <- scanResult{
						venue: t.VenueName,
						rows:  scanSite(ctx, extractor, t, cfg.Crawl.MaxRowsPerScan),
					}
					return nil
				})
			}
			_ = g.Wait()
			close(resCh)
		}()

		w, err := table.NewWriter(out, model.DealHeader)
		if err != nil {
			return eris.Wrap(err, "scan: open output")
		}
		log, err := table.NewLog(logPath)
		if err != nil {
			_ = w.Close()
			return eris.Wrap(err, "scan: open log")
		}

		venuesWithRows := 0
		for res := range resCh {
			if len(res.rows) == 0 {
				log.Line("NONE → " + res.venue)
				continue
			}
			venuesWithRows++
			for _, r := range res.rows {
				if err := w.Append(r.Record()); err != nil {
					_ = w.Close()
					_ = log.Close()
					return eris.Wrap(err, "scan: write row")
				}
			}
			log.Line(fmt.Sprintf("FOUND %d → %s (%s)", len(res.rows), res.venue, res.rows[0].SourceURL))
		}
		if err := w.Close(); err != nil {
			_ = log.Close()
			return eris.Wrap(err, "scan: close output")
		}
		if err := log.Close(); err != nil {
			return eris.Wrap(err, "scan: close log")
		}

		fmt.Printf("Scanned %d consented sites, %d produced rows (%d total) → %s\n",
			len(allowed), venuesWithRows, w.Count(), out)
		zap.L().Info("scan complete",
			zap.Int("sites", len(allowed)),
			zap.Int("with_rows", venuesWithRows),
			zap.Int("rows", w.Count()),
			zap.String("out", out),
		)
		return nil
	},
}

// scanSite probes the homepage and the guessed promo paths for one venue,
// keeping at most maxRows pre-filtered rows. Fetch failures on individual
// pages are skipped silently; the guessed paths mostly 404.
func scanSite(ctx context.Context, extractor *extract.Extractor, t model.TargetRow, maxRows int) []model.DealRow {
	base := strings.TrimRight(strings.TrimSpace(t.Website), "/")
	pages := append([]string{base}, guessURLs(base)...)

	var kept []model.DealRow
	for _, page := range pages {
		if len(kept) >= maxRows {
			break
		}
		rows, err := extractor.Extract(ctx, t.VenueName, t.Street, page, t.ScrapeAllowed)
		if err != nil {
			zap.L().Debug("scan: page skipped", zap.String("url", page), zap.Error(err))
			continue
		}
		for _, r := range rows {
			if len(kept) >= maxRows {
				break
			}
			if review.LooksLikeJunk(r.SourceSnippet) {
				continue
			}
			kept = append(kept, r)
		}
	}
	return kept
}

func guessURLs(base string) []string {
	urls := make([]string, 0, len(discover.GuessPaths))
	for _, p := range discover.GuessPaths {
		urls = append(urls, base+p)
	}
	return urls
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanIn, "in", "", "checked targets CSV (default <data_dir>/targets_checked.csv)")
	scanCmd.Flags().StringVar(&scanOut, "out", "", "output CSV path (default <data_dir>/scraped_deals.csv)")
}
