// ABOUTME: Web capability server: search stubs, page scraping, price comparison.
// ABOUTME: Transport failures surface as a generic scrape error, never raw detail.

package capabilities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zapvendedor/zap-gateway/internal/mcp"
	"github.com/zapvendedor/zap-gateway/internal/webtool"
)

// WebServerName is the routing key for the web capability server.
const WebServerName = "web-server"

// Web tool names.
const (
	ToolWebSearch     = "web-search"
	ToolScrapeWebpage = "scrape-webpage"
	ToolComparePrices = "compare-prices"
)

// maxScrapeContent bounds scraped page text, in runes, so tool payloads
// stay small without splitting a multi-byte character.
const maxScrapeContent = 1000

// ErrScrapeFailed is the generic error surfaced for any fetch or parse failure.
var ErrScrapeFailed = errors.New("failed to scrape webpage")

// SearchResult is one entry in a web-search result list.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchResults is the web-search tool's result shape.
type SearchResults struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// ScrapeResult is the scrape-webpage tool's result shape.
type ScrapeResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// StorePrice is one store's offer for a product.
type StorePrice struct {
	Store string  `json:"store"`
	Price float64 `json:"price"`
	URL   string  `json:"url"`
}

// PriceComparison is the compare-prices tool's result shape.
type PriceComparison struct {
	Product      string       `json:"product"`
	Prices       []StorePrice `json:"prices"`
	LowestPrice  float64      `json:"lowestPrice"`
	HighestPrice float64      `json:"highestPrice"`
}

// stubSearchResults stands in for a real search API. Search correctness is a
// pluggable concern; the tool contract is the result shape and the limit.
var stubSearchResults = []SearchResult{
	{
		Title:   "Example Search Result 1",
		URL:     "https://example.com/result1",
		Snippet: "This is a snippet of the search result content...",
	},
	{
		Title:   "Example Search Result 2",
		URL:     "https://example.com/result2",
		Snippet: "Another snippet of search result content...",
	},
}

// stubStorePrices stands in for scraping competitor stores.
var stubStorePrices = []StorePrice{
	{Store: "Store A", Price: 999.99, URL: "https://storea.com/product"},
	{Store: "Store B", Price: 949.99, URL: "https://storeb.com/product"},
	{Store: "Store C", Price: 1049.99, URL: "https://storec.com/product"},
}

// NewWebServer builds the web capability server around the given fetcher.
// The server is returned stopped; the caller owns its lifecycle.
func NewWebServer(fetcher webtool.Fetcher, logger *slog.Logger) (*mcp.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "capabilities", "server", WebServerName)

	srv := mcp.NewServer(WebServerName, "Provides access to web search and scraping", logger)

	err := srv.AddTool(mcp.NewTool(
		ToolWebSearch,
		"Search the web for information",
		mcp.Schema{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
				"limit": map[string]any{
					"type":        "number",
					"description": "The maximum number of results to return",
					"default":     5,
				},
			},
			"required": []any{"query"},
		},
		func(ctx context.Context, params mcp.Params) (any, error) {
			limit := params.Int("limit", 5)
			if limit < 0 {
				limit = 0
			}
			results := stubSearchResults
			if limit < len(results) {
				results = results[:limit]
			}
			log.Debug("web search", "query", params.String("query", ""), "results", len(results))
			return SearchResults{Results: results, Count: len(results)}, nil
		},
	))
	if err != nil {
		return nil, err
	}

	err = srv.AddTool(mcp.NewTool(
		ToolScrapeWebpage,
		"Scrape content from a webpage",
		mcp.Schema{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL of the webpage to scrape",
				},
				"selector": map[string]any{
					"type":        "string",
					"description": "Element selector to extract specific content (optional)",
					"default":     "body",
				},
			},
			"required": []any{"url"},
		},
		func(ctx context.Context, params mcp.Params) (any, error) {
			url := params.String("url", "")
			page, err := fetcher.Fetch(ctx, url)
			if err != nil {
				log.Warn("scrape failed", "url", url, "error", err)
				return nil, ErrScrapeFailed
			}

			content := page.Extract(params.String("selector", "body"))
			if runes := []rune(content); len(runes) > maxScrapeContent {
				content = string(runes[:maxScrapeContent])
			}
			return ScrapeResult{
				Title:   page.Title,
				Content: content,
				URL:     url,
			}, nil
		},
	))
	if err != nil {
		return nil, err
	}

	err = srv.AddTool(mcp.NewTool(
		ToolComparePrices,
		"Compare prices of a product across different websites",
		mcp.Schema{
			"type": "object",
			"properties": map[string]any{
				"productName": map[string]any{
					"type":        "string",
					"description": "The name of the product to compare prices for",
				},
			},
			"required": []any{"productName"},
		},
		func(ctx context.Context, params mcp.Params) (any, error) {
			name := params.String("productName", "")
			if len(stubStorePrices) == 0 {
				return nil, fmt.Errorf("no price sources available for %s", name)
			}

			lowest, highest := stubStorePrices[0].Price, stubStorePrices[0].Price
			for _, sp := range stubStorePrices[1:] {
				if sp.Price < lowest {
					lowest = sp.Price
				}
				if sp.Price > highest {
					highest = sp.Price
				}
			}
			return PriceComparison{
				Product:      name,
				Prices:       stubStorePrices,
				LowestPrice:  lowest,
				HighestPrice: highest,
			}, nil
		},
	))
	if err != nil {
		return nil, err
	}

	return srv, nil
}
