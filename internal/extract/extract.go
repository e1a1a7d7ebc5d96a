// Package extract fetches a candidate page and pulls out raw promotion
// evidence: keyword-matching text blocks and embedded structured-data
// (event/offer) items. Classification beyond that lives in normalize.
package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/menuscout/scout-cli/internal/fetch"
	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/normalize"
)

// blockSelector covers the elements whose text is worth scanning.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,div,section"

// minBlockLen discards fragments too short to describe a promotion.
const minBlockLen = 20

// DefaultMaxBlocks bounds text blocks kept per page.
const DefaultMaxBlocks = 200

// blockKeywords gate candidate text blocks. Weekday names are included
// here (unlike the normalizer's keyword list) so recurring-night promos
// without a branded phrase still surface.
var blockKeywords = append([]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}, normalize.Keywords...)

// Extractor fetches pages and emits candidate deal rows.
type Extractor struct {
	client    *fetch.Client
	maxBlocks int
}

// New creates an Extractor. maxBlocks <= 0 uses the default per-page cap.
func New(client *fetch.Client, maxBlocks int) *Extractor {
	if maxBlocks <= 0 {
		maxBlocks = DefaultMaxBlocks
	}
	return &Extractor{client: client, maxBlocks: maxBlocks}
}

// Extract fetches pageURL and returns normalized candidate rows from both
// extraction passes. A non-HTML or failed response returns the fetch error
// and no rows; callers log and move on.
func (e *Extractor) Extract(ctx context.Context, venueName, streetHint, pageURL string, consent model.Consent) ([]model.DealRow, error) {
	html, err := e.client.HTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var rows []model.DealRow
	for _, block := range e.TextBlocks(doc) {
		rows = append(rows, normalize.FromText(venueName, streetHint, block, pageURL, consent))
	}
	rows = append(rows, structuredRows(doc, venueName, streetHint, pageURL, consent)...)
	return rows, nil
}

// TextBlocks returns the keyword-matching text blocks of a parsed page:
// whitespace-collapsed, at least minBlockLen chars, case-folded deduped,
// capped at the per-page limit.
func (e *Extractor) TextBlocks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var blocks []string
	doc.Find(blockSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalize.Collapse(s.Text())
		if text == "" || len(text) < minBlockLen {
			return true
		}
		lower := strings.ToLower(text)
		if !containsAny(lower, blockKeywords) {
			return true
		}
		if seen[lower] {
			return true
		}
		seen[lower] = true
		blocks = append(blocks, text)
		return len(blocks) < e.maxBlocks
	})
	return blocks
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
