package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/menuscout/scout-cli/internal/discover"
	"github.com/menuscout/scout-cli/internal/fetch"
	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/table"
)

var (
	discoverIn  string
	discoverOut string
)

type discoverResult struct {
	venue   string
	baseURL string
	urls    []string
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Enumerate candidate promo pages on consented sites",
	Long: "For every target marked scrape_allowed=true, merges homepage anchors, " +
		"sitemap entries, and conventional path guesses into a capped per-site " +
		"list of candidate URLs for the extract stage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(discoverIn, cfg.Paths.Artifact("targets_checked.csv"))
		out := orDefault(discoverOut, cfg.Paths.Artifact("discovered_links.csv"))
		logPath := cfg.Paths.Artifact("discovery_log.txt")

		raw, err := table.ReadRows(in)
		if err != nil {
			return eris.Wrap(err, "discover: read targets")
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
		d := discover.New(client, cfg.Crawl.MaxLinksPerSite)

		resCh := make(chan discoverResult)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Crawl.Concurrency)

		go func() {
			for _, t := range allowed {
				t := t
				g.Go(func() error {
					resCh <- discoverResult{
						venue:   t.VenueName,
						baseURL: t.Website,
						urls:    d.Discover(ctx, t.Website, t.ScrapeAllowed),
					}
					return nil
				})
			}
			_ = g.Wait()
			close(resCh)
		}()

		w, err := table.NewWriter(out, model.LinkHeader)
		if err != nil {
			return eris.Wrap(err, "discover: open output")
		}
		log, err := table.NewLog(logPath)
		if err != nil {
			_ = w.Close()
			return eris.Wrap(err, "discover: open log")
		}

		sitesWithLinks := 0
		for res := range resCh {
			if len(res.urls) == 0 {
				log.Line("NONE → " + res.venue)
				continue
			}
			sitesWithLinks++
			for _, u := range res.urls {
				row := model.LinkRow{VenueName: res.venue, BaseURL: res.baseURL, URL: u}
				if err := w.Append(row.Record()); err != nil {
					_ = w.Close()
					_ = log.Close()
					return eris.Wrap(err, "discover: write row")
				}
			}
			log.Line(fmt.Sprintf("FOUND %d → %s (%s)", len(res.urls), res.venue, res.baseURL))
		}
		if err := w.Close(); err != nil {
			_ = log.Close()
			return eris.Wrap(err, "discover: close output")
		}
		if err := log.Close(); err != nil {
			return eris.Wrap(err, "discover: close log")
		}

		fmt.Printf("Discovered %d candidate links across %d of %d sites → %s\n",
			w.Count(), sitesWithLinks, len(allowed), out)
		zap.L().Info("discovery complete",
			zap.Int("sites", len(allowed)),
			zap.Int("with_links", sitesWithLinks),
			zap.Int("links", w.Count()),
			zap.String("out", out),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().StringVar(&discoverIn, "in", "", "checked targets CSV (default <data_dir>/targets_checked.csv)")
	discoverCmd.Flags().StringVar(&discoverOut, "out", "", "output CSV path (default <data_dir>/discovered_links.csv)")
}
