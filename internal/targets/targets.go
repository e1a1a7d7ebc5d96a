// Package targets builds the crawl target registry from the canonical
// dataset and filters out national chain venues.
package targets

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/robots"
)

// BuildRows maps canonical venues to target rows, sorted by venue name so
// the registry is stable across runs. City/region defaults fill venues with
// partial addresses.
func BuildRows(venues []model.Venue, defaultCity, defaultRegion string) []model.TargetRow {
	sorted := make([]model.Venue, len(venues))
	copy(sorted, venues)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].VenueName) < strings.ToLower(sorted[j].VenueName)
	})

	rows := make([]model.TargetRow, 0, len(sorted))
	for _, v := range sorted {
		city := v.Address.City
		if city == "" {
			city = defaultCity
		}
		region := v.Address.Region
		if region == "" {
			region = defaultRegion
		}

		gmaps := v.Contact.GoogleMaps
		if gmaps == "" {
			gmaps = mapsSearchURL(v.VenueName, v.Address.Street, city, region)
		}

		rows = append(rows, model.TargetRow{
			VenueName:   v.VenueName,
			Street:      v.Address.Street,
			City:        city,
			Region:      region,
			PostalCode:  v.Address.PostalCode,
			Website:     v.Contact.Website,
			Instagram:   v.Contact.Instagram,
			Facebook:    v.Contact.Facebook,
			GoogleMaps:  gmaps,
			SearchQuery: SearchQuery(v.VenueName, v.Address.Street, city, region),
			RobotsURL:   robots.RobotsURL(v.Contact.Website),
		})
	}
	return rows
}

// SearchQuery synthesizes the manual-research query for a venue.
func SearchQuery(name, street, city, region string) string {
	return fmt.Sprintf(`%s %s %s %s (specials OR "happy hour" OR menu OR tacos OR wings)`,
		name, street, city, region)
}

func mapsSearchURL(name, street, city, region string) string {
	q := url.QueryEscape(fmt.Sprintf("%s %s %s %s", name, street, city, region))
	return "https://www.google.com/maps/search/?api=1&query=" + q
}
