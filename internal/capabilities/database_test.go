// ABOUTME: Tests for the database capability server against the sample catalog.
// ABOUTME: Covers search, filter, lookup failure, and the all-products resource.

package capabilities

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapvendedor/zap-gateway/internal/catalog"
	"github.com/zapvendedor/zap-gateway/internal/mcp"
)

func databaseServer(t *testing.T) *mcp.Server {
	t.Helper()
	srv, err := NewDatabaseServer(catalog.NewMemory(catalog.Samples()...), nil)
	require.NoError(t, err)
	srv.Start()
	return srv
}

func TestSearchProducts(t *testing.T) {
	srv := databaseServer(t)

	t.Run("finds matching product with count", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolSearchProducts, mcp.Params{"query": "earbuds"})
		require.NoError(t, err)

		list, ok := result.(ProductList)
		require.True(t, ok)
		assert.Equal(t, 1, list.Count)
		require.Len(t, list.Products, 1)
		assert.Equal(t, "AirPods Pro 2", list.Products[0].Name)
	})

	t.Run("missing query fails with invalid parameters", func(t *testing.T) {
		_, err := srv.ExecuteTool(context.Background(), ToolSearchProducts, mcp.Params{})
		require.ErrorIs(t, err, mcp.ErrInvalidParams)
	})

	t.Run("no match returns empty list with zero count", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolSearchProducts, mcp.Params{"query": "headphones"})
		require.NoError(t, err)

		list := result.(ProductList)
		assert.Equal(t, 0, list.Count)
		assert.Empty(t, list.Products)
	})
}

func TestFilterProducts(t *testing.T) {
	srv := databaseServer(t)

	t.Run("max price 300 returns only the AirPods", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolFilterProducts, mcp.Params{"maxPrice": 300.0})
		require.NoError(t, err)

		list := result.(ProductList)
		require.Equal(t, 1, list.Count)
		assert.Equal(t, "AirPods Pro 2", list.Products[0].Name)
		assert.Equal(t, 249.99, list.Products[0].Price)
	})

	t.Run("all filters optional", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolFilterProducts, mcp.Params{})
		require.NoError(t, err)
		assert.Equal(t, 5, result.(ProductList).Count)
	})

	t.Run("category and brand narrow results", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolFilterProducts, mcp.Params{
			"category": "laptop",
			"brand":    "Dell",
		})
		require.NoError(t, err)

		list := result.(ProductList)
		require.Equal(t, 1, list.Count)
		assert.Equal(t, "Dell XPS 15", list.Products[0].Name)
	})
}

func TestGetProduct(t *testing.T) {
	srv := databaseServer(t)

	t.Run("returns the product", func(t *testing.T) {
		result, err := srv.ExecuteTool(context.Background(), ToolGetProduct, mcp.Params{"id": "3"})
		require.NoError(t, err)

		p, ok := result.(*catalog.Product)
		require.True(t, ok)
		assert.Equal(t, "MacBook Pro 16\"", p.Name)
	})

	t.Run("missing id fails with not found", func(t *testing.T) {
		_, err := srv.ExecuteTool(context.Background(), ToolGetProduct, mcp.Params{"id": "missing-id"})
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestAllProductsResource(t *testing.T) {
	srv := databaseServer(t)

	result, err := srv.FetchResource(context.Background(), ResourceAllProducts)
	require.NoError(t, err)

	payload, ok := result.(mcp.Payload)
	require.True(t, ok)
	assert.Equal(t, "application/json", payload.ContentType)

	var products []*catalog.Product
	require.NoError(t, json.Unmarshal([]byte(payload.Content), &products))
	assert.Len(t, products, 5)
}
