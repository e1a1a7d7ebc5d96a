package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuscout/scout-cli/internal/fetch"
	"github.com/menuscout/scout-cli/internal/model"
)

func testClient() *fetch.Client {
	return fetch.NewClient(fetch.Options{PerHostRPS: 1000})
}

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtract_TextBlocks(t *testing.T) {
	srv := htmlServer(t, `<html><body>
		<h2>Happy Hour every Tuesday 5-7</h2>
		<p>$5 draft specials and half price wings at the bar.</p>
		<p>We opened our doors back in 1987.</p>
		<p>short</p>
	</body></html>`)

	e := New(testClient(), 0)
	rows, err := e.Extract(context.Background(), "Test Tavern", "123 Main St", srv.URL+"/specials", model.ConsentAllowed)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Happy Hour", rows[0].Title)
	assert.Equal(t, "Tuesday", rows[0].Weekday)
	assert.Equal(t, "17:00", rows[0].StartTime)
	assert.Equal(t, "19:00", rows[0].EndTime)
	assert.Equal(t, model.ConfidenceHigh, rows[0].Confidence)
	assert.Equal(t, srv.URL+"/specials", rows[0].SourceURL)
	assert.Equal(t, model.ConsentAllowed, rows[0].ScrapeAllowed)

	// The price-only block has no branded phrase, so the generic title applies.
	assert.Equal(t, "5.00", rows[1].Price)
	assert.Equal(t, "USD", rows[1].Currency)
}

func TestExtract_NonHTMLPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	e := New(testClient(), 0)
	_, err := e.Extract(context.Background(), "Test Tavern", "", srv.URL, model.ConsentAllowed)
	assert.Error(t, err)
}

func TestExtract_JSONLDEvent(t *testing.T) {
	srv := htmlServer(t, `<html><head>
		<script type="application/ld+json">
		{
			"@type": "Event",
			"name": "Trivia Night",
			"description": "Weekly trivia with drink specials",
			"startDate": "2026-09-01T19:00:00",
			"endDate": "2026-09-01T21:00:00",
			"offers": {"price": "5.00", "priceCurrency": "USD"}
		}
		</script>
	</head><body></body></html>`)

	e := New(testClient(), 0)
	rows, err := e.Extract(context.Background(), "Test Tavern", "", srv.URL, model.ConsentAllowed)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, "Trivia Night", got.Title)
	assert.Equal(t, "Tuesday", got.Weekday)
	assert.Equal(t, "19:00", got.StartTime)
	assert.Equal(t, "21:00", got.EndTime)
	assert.Equal(t, "5.00", got.Price)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, model.ConfidenceHigh, got.Confidence)
	assert.Contains(t, got.SourceSnippet, "Trivia Night")
}

func TestExtract_JSONLDGraphAndOffers(t *testing.T) {
	srv := htmlServer(t, `<html><head>
		<script type="application/ld+json">
		{
			"@context": "https://schema.org",
			"@graph": [
				{"@type": "Restaurant", "name": "Test Tavern"},
				{"@type": "Offer", "name": "Lunch Combo", "price": 9.5, "priceCurrency": "USD"}
			]
		}
		</script>
	</head><body></body></html>`)

	e := New(testClient(), 0)
	rows, err := e.Extract(context.Background(), "Test Tavern", "", srv.URL, model.ConsentAllowed)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, "Lunch Combo", got.Title)
	assert.Equal(t, "9.50", got.Price)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, model.ConfidenceMedium, got.Confidence)
}

func TestExtract_MalformedJSONLDSkipped(t *testing.T) {
	srv := htmlServer(t, `<html><head>
		<script type="application/ld+json">{not json at all</script>
	</head><body>
		<p>Taco Tuesday: $3 tacos from 5-9pm every week.</p>
	</body></html>`)

	e := New(testClient(), 0)
	rows, err := e.Extract(context.Background(), "Test Tavern", "", srv.URL, model.ConsentAllowed)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Taco Tuesday", rows[0].Title)
}

func TestTextBlocks_DedupeAndCap(t *testing.T) {
	html := `<html><body>
		<p>Happy hour specials every day 4-6</p>
		<p>HAPPY HOUR SPECIALS EVERY DAY 4-6</p>
		<p>Taco tuesday means $3 tacos all night</p>
		<p>Wing wednesday brings 50 cent wings</p>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	e := New(testClient(), 2)
	blocks := e.TextBlocks(doc)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Happy hour specials every day 4-6", blocks[0])
	assert.Equal(t, "Taco tuesday means $3 tacos all night", blocks[1])
}
