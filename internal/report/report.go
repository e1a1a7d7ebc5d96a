// Package report scans the canonical dataset for venues still lacking
// deals and re-emits them as backfill crawl targets, closing the pipeline
// loop without re-processing venues that already have coverage.
package report

import (
	"fmt"
	"strings"

	"github.com/menuscout/scout-cli/internal/model"
)

// Missing returns one backfill row per venue with an empty deal list,
// joined against the checked target registry for consent state and
// best-known handles.
func Missing(venues []model.Venue, checked []model.TargetRow, city, region string) []model.MissingRow {
	index := make(map[string]model.TargetRow, len(checked))
	for _, t := range checked {
		index[strings.ToLower(t.VenueName)] = t
	}

	var rows []model.MissingRow
	for _, v := range venues {
		if len(v.Deals) > 0 {
			continue
		}

		t := index[strings.ToLower(v.VenueName)]

		website := v.Contact.Website
		if website == "" {
			website = t.Website
		}
		query := t.SearchQuery
		if query == "" {
			query = fmt.Sprintf(`%s %s %s %s specials OR "happy hour" OR menu`,
				v.VenueName, v.Address.Street, city, region)
		}

		rows = append(rows, model.MissingRow{
			VenueName:        v.VenueName,
			Street:           v.Address.Street,
			NeighborhoodHint: v.Address.PostalCode,
			Website:          website,
			ScrapeAllowed:    t.ScrapeAllowed,
			RobotsURL:        t.RobotsURL,
			GoogleMaps:       t.GoogleMaps,
			SearchQuery:      query,
		})
	}
	return rows
}
