// ABOUTME: Tests for the HTTP fetcher and selector-based text extraction.
// ABOUTME: Serves fixture HTML from an httptest server.

package webtool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head><title>Store Front</title><style>body { color: red; }</style></head>
<body>
  <h1>Deals of the day</h1>
  <p>Wireless earbuds from $199.</p>
  <p>Laptops from $999.</p>
  <script>console.log("ignore me")</script>
</body>
</html>`

func fixtureServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	t.Run("fetches title and body text", func(t *testing.T) {
		srv := fixtureServer(t, http.StatusOK, fixtureHTML)
		f := NewHTTPFetcher(0)

		page, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "Store Front", page.Title)

		body := page.Extract("body")
		assert.Contains(t, body, "Deals of the day")
		assert.Contains(t, body, "Wireless earbuds from $199.")
		assert.NotContains(t, body, "ignore me")
		assert.NotContains(t, body, "color: red")
	})

	t.Run("selector narrows extraction", func(t *testing.T) {
		srv := fixtureServer(t, http.StatusOK, fixtureHTML)
		f := NewHTTPFetcher(0)

		page, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "Deals of the day", page.Extract("h1"))
		assert.Equal(t, "Wireless earbuds from $199. Laptops from $999.", page.Extract("p"))
	})

	t.Run("empty selector defaults to body", func(t *testing.T) {
		srv := fixtureServer(t, http.StatusOK, fixtureHTML)
		f := NewHTTPFetcher(0)

		page, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, page.Extract("body"), page.Extract(""))
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		srv := fixtureServer(t, http.StatusInternalServerError, "boom")
		f := NewHTTPFetcher(0)

		_, err := f.Fetch(context.Background(), srv.URL)
		require.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("unreachable host fails", func(t *testing.T) {
		f := NewHTTPFetcher(0)
		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing")
		require.ErrorIs(t, err, ErrFetchFailed)
	})
}
