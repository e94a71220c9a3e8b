// ABOUTME: Tests for the web capability server: search limits, scraping, price spread.
// ABOUTME: Scraping runs against a fake fetcher so no network is touched.

package capabilities

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapvendedor/zap-gateway/internal/mcp"
	"github.com/zapvendedor/zap-gateway/internal/webtool"
)

// fakeFetcher returns canned pages or a canned error.
type fakeFetcher struct {
	page *webtool.Page
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*webtool.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func parsePage(t *testing.T, url, rawHTML string) *webtool.Page {
	t.Helper()
	page, err := webtool.Parse(url, strings.NewReader(rawHTML))
	require.NoError(t, err)
	return page
}

func webServer(t *testing.T, fetcher webtool.Fetcher) *mcp.Server {
	t.Helper()
	srv, err := NewWebServer(fetcher, nil)
	require.NoError(t, err)
	srv.Start()
	return srv
}

func TestWebSearch(t *testing.T) {
	srv := webServer(t, &fakeFetcher{})

	t.Run("returns stub results up to limit", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolWebSearch, mcp.Params{
			"query": "best earbuds 2024",
			"limit": 1.0,
		})
		require.NoError(t, err)

		sr := result.(SearchResults)
		assert.Equal(t, 1, sr.Count)
		require.Len(t, sr.Results, 1)
		assert.Equal(t, "Example Search Result 1", sr.Results[0].Title)
	})

	t.Run("limit defaults to five", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolWebSearch, mcp.Params{"query": "anything"})
		require.NoError(t, err)

		sr := result.(SearchResults)
		assert.Equal(t, len(sr.Results), sr.Count)
		assert.LessOrEqual(t, sr.Count, 5)
	})

	t.Run("missing query fails with invalid parameters", func(t *testing.T) {
		_, err := srv.ExecuteTool(context.Background(), ToolWebSearch, mcp.Params{"limit": 3.0})
		require.ErrorIs(t, err, mcp.ErrInvalidParams)
	})
}

func TestScrapeWebpage(t *testing.T) {
	t.Run("returns title and truncated content", func(t *testing.T) {
		long := strings.Repeat("lorem ipsum ", 200) // well past the 1000-char cap
		page := parsePage(t, "https://example.com/deals",
			"<html><head><title>Deals</title></head><body><p>"+long+"</p></body></html>")
		srv := webServer(t, &fakeFetcher{page: page})

		result, err := srv.ExecuteTool(context.Background(), ToolScrapeWebpage, mcp.Params{
			"url": "https://example.com/deals",
		})
		require.NoError(t, err)

		scrape := result.(ScrapeResult)
		assert.Equal(t, "Deals", scrape.Title)
		assert.Equal(t, "https://example.com/deals", scrape.URL)
		assert.Len(t, scrape.Content, maxScrapeContent)
	})

	t.Run("truncation keeps multi-byte text valid", func(t *testing.T) {
		long := strings.Repeat("promoção de eletrônicos ", 100)
		page := parsePage(t, "https://example.com/br",
			"<html><head><title>Promoções</title></head><body><p>"+long+"</p></body></html>")
		srv := webServer(t, &fakeFetcher{page: page})

		result, err := srv.ExecuteTool(context.Background(), ToolScrapeWebpage, mcp.Params{
			"url": "https://example.com/br",
		})
		require.NoError(t, err)

		scrape := result.(ScrapeResult)
		assert.True(t, utf8.ValidString(scrape.Content))
		assert.Equal(t, maxScrapeContent, utf8.RuneCountInString(scrape.Content))
	})

	t.Run("fetch failure surfaces the generic error", func(t *testing.T) {
		srv := webServer(t, &fakeFetcher{err: webtool.ErrFetchFailed})

		_, err := srv.ExecuteTool(context.Background(), ToolScrapeWebpage, mcp.Params{
			"url": "https://example.com/nope",
		})
		require.ErrorIs(t, err, ErrScrapeFailed)
		assert.NotContains(t, err.Error(), "fetch failed")
	})

	t.Run("missing url fails with invalid parameters", func(t *testing.T) {
		srv := webServer(t, &fakeFetcher{})
		_, err := srv.ExecuteTool(context.Background(), ToolScrapeWebpage, mcp.Params{"selector": "body"})
		require.ErrorIs(t, err, mcp.ErrInvalidParams)
	})
}

func TestComparePrices(t *testing.T) {
	srv := webServer(t, &fakeFetcher{})

	t.Run("reports price spread", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolComparePrices, mcp.Params{
			"productName": "iPhone 15 Pro",
		})
		require.NoError(t, err)

		cmp := result.(PriceComparison)
		assert.Equal(t, "iPhone 15 Pro", cmp.Product)
		assert.Len(t, cmp.Prices, 3)
		assert.Equal(t, 949.99, cmp.LowestPrice)
		assert.Equal(t, 1049.99, cmp.HighestPrice)
	})

	t.Run("missing product name fails with invalid parameters", func(t *testing.T) {
		_, err := srv.ExecuteTool(context.Background(), ToolComparePrices, mcp.Params{})
		require.ErrorIs(t, err, mcp.ErrInvalidParams)
	})
}
