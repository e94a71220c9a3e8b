// ABOUTME: HTTP fetch/parse collaborator behind the web capability server.
// ABOUTME: Parses pages with x/net/html and extracts text by element selector.

package webtool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ErrFetchFailed indicates the page could not be retrieved or parsed.
var ErrFetchFailed = errors.New("fetch failed")

// Page is a fetched and parsed webpage.
type Page struct {
	URL   string
	Title string
	doc   *html.Node
}

// Fetcher retrieves and parses webpages. Implementations are expected to
// bound their own request time.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// HTTPFetcher is the production Fetcher over net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the URL and parses the response body as HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", ErrFetchFailed, resp.Status)
	}

	page, err := Parse(url, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return page, nil
}

// Parse builds a Page from raw HTML. Exposed so capability tests can build
// pages without a live fetch.
func Parse(url string, r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Page{
		URL:   url,
		Title: strings.TrimSpace(textOf(findAll(doc, "title", 1))),
		doc:   doc,
	}, nil
}

// Extract returns the trimmed text content of all elements matching the
// selector. Selectors are element names only ("body", "p", "h1").
func (p *Page) Extract(selector string) string {
	if selector == "" {
		selector = "body"
	}
	return strings.TrimSpace(textOf(findAll(p.doc, selector, 0)))
}

// findAll walks the tree collecting elements with the given tag name.
// A max of 0 collects every match.
func findAll(n *html.Node, tag string, max int) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if max > 0 && len(out) >= max {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// textOf concatenates the text nodes beneath the given elements, skipping
// script and style content.
func textOf(nodes []*html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			text := strings.TrimSpace(node.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}
